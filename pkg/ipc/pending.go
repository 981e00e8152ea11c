package ipc

import (
	"sync"
	"sync/atomic"
)

type callResult struct {
	env *Envelope
	err error
}

// pendingCall 等待回复的调用
type pendingCall struct {
	seqno int64
	kind  MsgKind
	done  chan callResult
	once  sync.Once
	// orphaned 调用方已放弃，回复到达时直接丢弃
	orphaned atomic.Bool
}

func (p *pendingCall) resolve(r callResult) {
	p.once.Do(func() {
		p.done <- r
	})
}

func (c *Channel) addPending(env *Envelope) *pendingCall {
	pc := &pendingCall{
		seqno: env.Seqno,
		kind:  env.Kind,
		done:  make(chan callResult, 1),
	}
	c.pending.Set(env.Seqno, pc)
	c.metrics.PendingCalls(1)
	return pc
}

func (c *Channel) takePending(seqno int64) (*pendingCall, bool) {
	pc, ok := c.pending.GetAndDelete(seqno)
	if ok {
		c.metrics.PendingCalls(-1)
	}
	return pc, ok
}

// failPending 通道关闭时结束所有等待中的调用
func (c *Channel) failPending(err error) {
	var seqs []int64
	c.pending.Range(func(seqno int64, _ *pendingCall) bool {
		seqs = append(seqs, seqno)
		return true
	})
	for _, seqno := range seqs {
		if pc, ok := c.takePending(seqno); ok {
			pc.resolve(callResult{err: err})
		}
	}
}
