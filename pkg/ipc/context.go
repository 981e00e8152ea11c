package ipc

import (
	"context"
	"sync/atomic"
)

type frameKey struct{}

// dispatchFrame 一次派发的上下文标记，处理函数返回后失效
type dispatchFrame struct {
	ch     *Channel
	env    *Envelope
	active atomic.Bool
}

func frameFrom(ctx context.Context) *dispatchFrame {
	if ctx == nil {
		return nil
	}
	f, _ := ctx.Value(frameKey{}).(*dispatchFrame)
	return f
}

// EnvelopeFrom 处理函数里取正在派发的信封
func EnvelopeFrom(ctx context.Context) (*Envelope, bool) {
	f := frameFrom(ctx)
	if f == nil {
		return nil, false
	}
	return f.env, true
}

// ChannelFrom 处理函数里取所属通道
func ChannelFrom(ctx context.Context) (*Channel, bool) {
	f := frameFrom(ctx)
	if f == nil {
		return nil, false
	}
	return f.ch, true
}

// nested 当前 ctx 是否来自本通道正在执行的处理函数，是则调用方就在派发协程上
func (c *Channel) nested(ctx context.Context) bool {
	f := frameFrom(ctx)
	return f != nil && f.ch == c && f.active.Load()
}
