// Package gnetx 基于 gnet 事件循环的帧传输
package gnetx

import (
	"io"

	"github.com/panjf2000/gnet/v2"

	"github.com/dzm2020/gipc/pkg/lib/stopper"
	"github.com/dzm2020/gipc/pkg/transport"
)

// Conn 一条 gnet 连接，收到的帧在事件循环里解码后排队
type Conn struct {
	stopper.Stopper
	c     gnet.Conn
	max   int
	inbox *transport.Inbox
}

func newConn(c gnet.Conn, max int) *Conn {
	return &Conn{
		c:     c,
		max:   max,
		inbox: transport.NewInbox(),
	}
}

func (c *Conn) onTraffic(gc gnet.Conn) gnet.Action {
	frames, err := transport.DecodeFrames(gc, c.max)
	c.inbox.Push(frames...)
	if err != nil {
		c.inbox.Fail(err)
		return gnet.Close
	}
	return gnet.None
}

func (c *Conn) onClose(err error) {
	if c.IsStop() {
		err = transport.ErrClosed
	} else if err == nil {
		err = io.EOF
	}
	c.inbox.Fail(err)
}

// Send 交给事件循环异步写出，顺序与调用顺序一致
func (c *Conn) Send(frames ...[]byte) error {
	if c.IsStop() {
		return transport.ErrClosed
	}
	bufs := make([][]byte, 0, 2*len(frames))
	for _, f := range frames {
		if len(f) > c.max {
			return transport.ErrFrameTooLarge
		}
		bufs = append(bufs, transport.FrameHeader(len(f)), f)
	}
	return c.c.AsyncWritev(bufs, nil)
}

func (c *Conn) Recv() ([]byte, error) {
	return c.inbox.Recv()
}

func (c *Conn) Close() error {
	if !c.Stop() {
		return nil
	}
	return c.c.Close()
}

func (c *Conn) RemoteAddr() string {
	if addr := c.c.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
