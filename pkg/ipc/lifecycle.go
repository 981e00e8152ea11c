package ipc

import (
	"context"

	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
)

// beginDestroy Open 或 Constructing 切到 Destroying，只有一个入口能成功
func (a *Actor) beginDestroy() bool {
	for {
		s := a.state.Load()
		if ActorState(s) != StateOpen && ActorState(s) != StateConstructing {
			return false
		}
		if a.state.CompareAndSwap(s, int32(StateDestroying)) {
			return true
		}
	}
}

// teardown 调用前必须已经 beginDestroy 成功
// 先从新到旧销毁下级，再回调 ActorDestroy，最后释放编号
func (c *Channel) teardown(actor IActor, reason TeardownReason) {
	b := actor.base()
	childReason := reason
	if reason == Deletion || reason == AncestorDeletion {
		childReason = AncestorDeletion
	}
	children := b.Managees()
	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		if child.base().beginDestroy() {
			c.teardown(child, childReason)
		}
	}

	c.runDestroyHook(actor, reason)
	b.state.Store(int32(StateDestroyed))
	if b.id != ControlID && b.id != NoneID {
		c.registry.Unregister(b.id)
	}
	if m := b.Manager(); m != nil {
		m.base().managees.Delete(b.id)
	}
}

func (c *Channel) runDestroyHook(actor IActor, reason TeardownReason) {
	defer func() {
		if r := recover(); r != nil {
			glog.Error("ipc: ActorDestroy panic", zap.String("channel", c.name),
				zap.Stringer("actor", actor.base().id), zap.Any("recover", r), zap.Stack("stack"))
		}
	}()
	glog.Debug("ipc: actor destroyed", zap.String("channel", c.name),
		zap.Stringer("actor", actor.base().id), zap.Stringer("reason", reason))
	actor.ActorDestroy(reason)
}

// destroyLocal 本端发起的销毁在派发协程上执行，ctx 来自处理函数时直接执行
// 派发协程可能正停在同一 actor 的处理函数里做嵌套调用，不能在调用方协程上回调 ActorDestroy
func (c *Channel) destroyLocal(ctx context.Context, actor IActor, reason TeardownReason) {
	if c.nested(ctx) {
		c.teardown(actor, reason)
		return
	}
	c.runOnServe(func() {
		c.teardown(actor, reason)
	})
}

func (c *Channel) failConstructor(ctx context.Context, child IActor) {
	if child.base().beginDestroy() {
		c.destroyLocal(ctx, child, FailedConstructor)
	}
}

// teardownAll 通道关闭后由派发协程调用
func (c *Channel) teardownAll(reason TeardownReason) {
	if c.root != nil && c.root.base().beginDestroy() {
		c.teardown(c.root, reason)
	}
	// 上级链断开的 actor
	ids := c.registry.IDs()
	for i := len(ids) - 1; i >= 0; i-- {
		if a, ok := c.registry.Lookup(ids[i]); ok && a.base().beginDestroy() {
			c.teardown(a, reason)
		}
	}
}
