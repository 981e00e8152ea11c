package ipc

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/lib"
	"github.com/dzm2020/gipc/pkg/lib/workers"
)

const (
	idle int32 = iota
	running
)

type outgoing struct {
	frame    []byte
	priority Priority
}

// outbox 通道唯一的发送队列
// 多个协程并发投递，同一时刻只有一个写协程，写出顺序等于投递顺序
type outbox struct {
	queue   *lib.Mpsc[outgoing]
	t       Transport
	batch   int
	state   atomic.Int32
	closed  atomic.Bool
	mu      sync.Mutex // 保护 queue 的消费端和 failed
	failed  bool
	onError func(error)
}

func newOutbox(t Transport, batch int, onError func(error)) *outbox {
	return &outbox{
		queue:   lib.NewMpsc[outgoing](),
		t:       t,
		batch:   batch,
		onError: onError,
	}
}

func (o *outbox) post(frame []byte, priority Priority) error {
	if o.closed.Load() {
		return ErrChannelClosed
	}
	o.queue.Push(outgoing{frame: frame, priority: priority})
	o.schedule()
	return nil
}

// schedule CAS 保证只有一个写协程
func (o *outbox) schedule() {
	if !o.state.CompareAndSwap(idle, running) {
		return
	}
	workers.Submit(o.process, func(err interface{}) {
		glog.Error("ipc: outbox panic", zap.Any("recover", err), zap.Stack("stack"))
		o.state.Store(idle)
	})
}

func (o *outbox) process() {
	for {
		o.flush()
		o.state.Store(idle)
		// 置回 idle 后再检查一次，期间投递的消息不会丢失唤醒
		if !o.hasPending() || !o.state.CompareAndSwap(idle, running) {
			return
		}
	}
}

func (o *outbox) hasPending() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.queue.Empty()
}

func (o *outbox) flush() {
	o.mu.Lock()
	defer o.mu.Unlock()
	frames := make([][]byte, 0, o.batch)
	for {
		item, ok := o.queue.Pop()
		if !ok {
			break
		}
		if o.failed {
			continue
		}
		frames = append(frames, item.frame)
		// 高优先级立即写出，普通消息攒够一批再写
		if item.priority >= PriorityHigh || len(frames) >= o.batch {
			o.write(frames)
			frames = frames[:0]
		}
	}
	if len(frames) > 0 {
		o.write(frames)
	}
}

func (o *outbox) write(frames [][]byte) {
	if o.failed {
		return
	}
	if err := o.t.Send(frames...); err != nil {
		o.failed = true
		if o.onError != nil {
			o.onError(err)
		}
	}
}

// closeWith 拒绝后续投递，把队列里剩余的消息和 final 一起写出
func (o *outbox) closeWith(final []byte) error {
	o.closed.Store(true)
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.failed {
		return nil
	}
	var frames [][]byte
	for {
		item, ok := o.queue.Pop()
		if !ok {
			break
		}
		frames = append(frames, item.frame)
	}
	if final != nil {
		frames = append(frames, final)
	}
	if len(frames) == 0 {
		return nil
	}
	return o.t.Send(frames...)
}

func (o *outbox) close() {
	o.closed.Store(true)
}
