package ipc

import (
	"context"

	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/lib/timex/asynctime"
)

// Call 发送调用并阻塞到回复到达
// ctx 来自本通道的处理函数时，调用方就是派发协程，等待期间由它继续派发其他消息；
// 否则等待派发协程交付回复。处理函数里必须把收到的 ctx 传下来，
// 换成 context.Background 之类的 ctx 会让派发协程等待自己，通道卡死。
// 对端派发失败返回 *CallError，通道关闭返回 ErrChannelClosed，ctx 结束返回其原因。
func (c *Channel) Call(ctx context.Context, env *Envelope) (*Envelope, error) {
	if env.Kind.IsReply() {
		return nil, ErrNotCallKind(env.Kind)
	}
	if c.stopper.IsStop() {
		return nil, ErrChannelClosed
	}
	env.flags = flagCall
	env.Seqno = c.seqno.Add(1)
	pc := c.addPending(env)
	if c.stopper.IsStop() {
		if _, ok := c.takePending(env.Seqno); ok {
			return nil, ErrChannelClosed
		}
	}

	timer := c.metrics.CallDuration()
	defer timer.ObserveDuration()

	ctx, cancel := c.callContext(ctx)
	defer cancel()

	if err := c.post(env); err != nil {
		c.takePending(env.Seqno)
		return nil, err
	}

	var r callResult
	if c.nested(ctx) {
		r = c.pumpUntil(ctx, pc)
	} else {
		c.warnDetached(ctx)
		r = c.await(ctx, pc)
	}
	return r.env, r.err
}

// callContext ctx 没有截止时间时套上默认超时
func (c *Channel) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.opts.CallTimeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	ctx, cancel := context.WithCancelCause(ctx)
	t := asynctime.AfterFunc(c.opts.CallTimeout, func() {
		cancel(ErrCallTimeout)
	})
	return ctx, func() {
		t.Stop()
		cancel(nil)
	}
}

// pumpUntil 嵌套调用：在派发协程上一边等回复一边派发
func (c *Channel) pumpUntil(ctx context.Context, pc *pendingCall) callResult {
	for {
		select {
		case r := <-pc.done:
			return r
		default:
		}
		if in, ok := c.inbox.Pop(); ok {
			c.handleInbound(in)
			continue
		}
		select {
		case r := <-pc.done:
			return r
		case <-c.signal:
		case <-ctx.Done():
			return c.abandon(ctx, pc)
		}
	}
}

func (c *Channel) await(ctx context.Context, pc *pendingCall) callResult {
	select {
	case r := <-pc.done:
		return r
	case <-ctx.Done():
		return c.abandon(ctx, pc)
	}
}

// abandon 放弃等待，调用保持在表里直到回复到达被丢弃或通道关闭
func (c *Channel) abandon(ctx context.Context, pc *pendingCall) callResult {
	pc.orphaned.Store(true)
	select {
	case r := <-pc.done:
		return r
	default:
	}
	err := context.Cause(ctx)
	if err == nil {
		err = ctx.Err()
	}
	return callResult{err: err}
}

// warnDetached 有处理函数在执行时出现不带处理函数 ctx 的阻塞调用
// 来自其他协程时没有问题，来自处理函数本身则会卡死，无法区分，只提示一次
func (c *Channel) warnDetached(ctx context.Context) {
	if c.dispatching.Load() == 0 || frameFrom(ctx) != nil {
		return
	}
	if c.warned.CompareAndSwap(false, true) {
		glog.Warn("ipc: blocking call without handler ctx while a handler is running",
			zap.String("channel", c.name), zap.String("hint", "pass the handler ctx to calls made inside handlers"))
	}
}
