package transport

import (
	"sync"
)

// Inbox 收到的帧排队等待 Recv，单个读者
type Inbox struct {
	mu     sync.Mutex
	frames [][]byte
	err    error
	signal chan struct{}
}

func NewInbox() *Inbox {
	return &Inbox{signal: make(chan struct{}, 1)}
}

// Push 已经 Fail 的队列不再接收，返回 false
func (q *Inbox) Push(frames ...[]byte) bool {
	if len(frames) == 0 {
		return true
	}
	q.mu.Lock()
	if q.err != nil {
		q.mu.Unlock()
		return false
	}
	q.frames = append(q.frames, frames...)
	q.mu.Unlock()
	q.wake()
	return true
}

// Fail 排队中的帧读完后 Recv 返回 err，只有第一次生效
func (q *Inbox) Fail(err error) {
	if err == nil {
		err = ErrClosed
	}
	q.mu.Lock()
	if q.err == nil {
		q.err = err
	}
	q.mu.Unlock()
	q.wake()
}

func (q *Inbox) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Recv 阻塞到有帧或队列失败
func (q *Inbox) Recv() ([]byte, error) {
	for {
		q.mu.Lock()
		if len(q.frames) > 0 {
			f := q.frames[0]
			q.frames[0] = nil
			q.frames = q.frames[1:]
			q.mu.Unlock()
			return f, nil
		}
		if q.err != nil {
			err := q.err
			q.mu.Unlock()
			return nil, err
		}
		q.mu.Unlock()
		<-q.signal
	}
}
