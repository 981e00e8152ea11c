package gnetx

import (
	"github.com/panjf2000/gnet/v2"

	"github.com/dzm2020/gipc/pkg/transport"
)

type Option func(*options)

type options struct {
	maxFrameSize int
	multicore    bool
}

func loadOptions(opts ...Option) *options {
	o := &options{
		maxFrameSize: transport.DefaultMaxFrameSize,
		multicore:    true,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.maxFrameSize <= 0 {
		o.maxFrameSize = transport.DefaultMaxFrameSize
	}
	return o
}

func WithMaxFrameSize(n int) Option {
	return func(o *options) {
		o.maxFrameSize = n
	}
}

func WithMulticore(b bool) Option {
	return func(o *options) {
		o.multicore = b
	}
}

// handler 服务端和客户端共用的事件处理
type handler struct {
	gnet.BuiltinEventEngine
}

func (h *handler) OnTraffic(c gnet.Conn) gnet.Action {
	conn, ok := c.Context().(*Conn)
	if !ok {
		return gnet.Close
	}
	return conn.onTraffic(c)
}

func (h *handler) OnClose(c gnet.Conn, err error) gnet.Action {
	if conn, ok := c.Context().(*Conn); ok {
		conn.onClose(err)
	}
	return gnet.None
}
