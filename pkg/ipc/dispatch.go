package ipc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/wire"
)

func (c *Channel) handleInbound(in inbound) {
	switch {
	case in.task != nil:
		in.task.run()
	case in.terminal:
		_ = c.shutdown(in.err, AbnormalShutdown, false)
	case in.err != nil:
		// 信封头都解不出来，没有可以回复的调用
		c.report(PayloadError, nil, in.err)
	case in.env.IsReply():
		c.metrics.EnvelopeReceived(in.env.Kind.String())
		c.resolveReply(in.env)
	default:
		c.metrics.EnvelopeReceived(in.env.Kind.String())
		c.dispatch(in.env)
	}
}

// dispatch 派发一条 Send 或 Call，调用一定会收到回复或错误回复
func (c *Channel) dispatch(env *Envelope) {
	f := &dispatchFrame{ch: c, env: env}
	f.active.Store(true)
	ctx := context.WithValue(c.ctx, frameKey{}, f)
	c.dispatching.Add(1)
	reply, outcome, err := c.deliver(ctx, env)
	c.dispatching.Add(-1)
	f.active.Store(false)

	c.report(outcome, env, err)
	if !env.IsCall() || c.stopper.IsStop() {
		return
	}
	// 回复按序号匹配，不需要路由号
	var out *Envelope
	if outcome == Processed {
		out = newReply(env, NoneID, reply)
	} else {
		out = newErrorReply(env, NoneID, outcome, err)
	}
	if err := c.post(out); err != nil {
		glog.Debug("ipc: drop reply", c.fields(out, zap.Error(err))...)
	}
}

func (c *Channel) deliver(ctx context.Context, env *Envelope) ([]byte, Outcome, error) {
	if env.RoutingID == ControlID && env.Kind.Protocol() == controlProtocol {
		return c.handleControl(env)
	}
	actor, err := c.resolve(env.RoutingID)
	if err != nil {
		return nil, RouteError, err
	}
	b := actor.base()
	spec, ok := b.proto.Spec(env.Kind)
	if !ok {
		return nil, NotKnown, ErrKindNotInProtocol(env.Kind, b.proto)
	}
	if (spec.Sem == SemCall) != env.IsCall() {
		return nil, PayloadError, ErrSemanticsMismatch(env.Kind, spec.Sem)
	}
	reply, outcome, err := c.invoke(ctx, actor, env)
	// 对端已经销毁了自己那一半，无论处理结果如何本端都要销毁
	if spec.Dtor && b.beginDestroy() {
		c.teardown(actor, Deletion)
	}
	return reply, outcome, err
}

// resolve 路由号到 actor，正在销毁的 actor 视为不存在
func (c *Channel) resolve(id ActorID) (IActor, error) {
	var actor IActor
	if id == ControlID {
		if c.root == nil {
			return nil, ErrNoRootActor
		}
		actor = c.root
	} else {
		a, ok := c.registry.Lookup(id)
		if !ok {
			return nil, ErrNoSuchActor(id)
		}
		actor = a
	}
	switch actor.base().State() {
	case StateOpen, StateConstructing:
		return actor, nil
	}
	return nil, ErrActorDestroying(id)
}

func (c *Channel) invoke(ctx context.Context, actor IActor, env *Envelope) (reply []byte, outcome Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			glog.Error("ipc: handler panic", c.fields(env, zap.Any("recover", r), zap.Stack("stack"))...)
			reply, outcome, err = nil, ValueError, ErrHandlerPanic(r)
		}
	}()
	return actor.HandleMessage(ctx, env)
}

func (c *Channel) handleControl(env *Envelope) ([]byte, Outcome, error) {
	switch env.Kind {
	case KindGoodbye:
		_ = c.shutdown(ErrPeerGoodbye, NormalShutdown, false)
		return nil, Processed, nil
	}
	return nil, NotKnown, fmt.Errorf("ipc: control kind %s: %w", env.Kind, ErrUnknownKind)
}

func (c *Channel) resolveReply(env *Envelope) {
	pc, ok := c.takePending(env.Seqno)
	if !ok {
		glog.Debug("ipc: reply without pending call", c.fields(env)...)
		return
	}
	if pc.orphaned.Load() {
		glog.Debug("ipc: discard reply of abandoned call", c.fields(env)...)
		return
	}
	if env.Kind != pc.kind.Reply() {
		c.report(PayloadError, env, ErrReplyMismatch)
		pc.resolve(callResult{err: &CallError{Outcome: PayloadError, Kind: pc.kind, Message: ErrReplyMismatch.Error()}})
		return
	}
	if env.IsError() {
		f := new(callFailure)
		if err := wire.Decode(env.Payload, f); err != nil {
			f.Outcome, f.Message = PayloadError, err.Error()
		}
		pc.resolve(callResult{err: &CallError{Outcome: f.Outcome, Kind: pc.kind, Message: f.Message}})
		return
	}
	pc.resolve(callResult{env: env})
}

// report 每次派发恰好一次：指标、日志、观察者、协议错误策略
func (c *Channel) report(outcome Outcome, env *Envelope, err error) {
	c.metrics.DispatchOutcome(outcome.String())
	if outcome == Processed {
		if glog.Enabled(zap.DebugLevel) {
			glog.Debug("ipc: dispatched", c.fields(env)...)
		}
	} else {
		glog.Warn("ipc: dispatch failed", c.fields(env, zap.Stringer("outcome", outcome), zap.Error(err))...)
	}
	if h := c.opts.OutcomeHandler; h != nil {
		h(outcome, env)
	}
	if !outcome.IsProtocolError() {
		return
	}
	n := int(c.protoErrs.Add(1))
	closeIt := c.opts.MaxProtocolErrors > 0 && n >= c.opts.MaxProtocolErrors
	if p := c.opts.ErrorPolicy; p != nil && p(outcome, env) {
		closeIt = true
	}
	if closeIt {
		_ = c.shutdown(fmt.Errorf("%w: %s", ErrProtocolViolation, outcome), AbnormalShutdown, false)
	}
}
