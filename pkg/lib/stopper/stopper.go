package stopper

import (
	"sync"
	"sync/atomic"
)

// Stopper 只能停止一次的开关，Done 在停止后关闭
type Stopper struct {
	isStopped atomic.Bool
	once      sync.Once
	done      chan struct{}
}

func (s *Stopper) init() {
	s.once.Do(func() {
		s.done = make(chan struct{})
	})
}

func (s *Stopper) IsStop() bool {
	return s.isStopped.Load()
}

// Stop 第一次调用返回 true
func (s *Stopper) Stop() bool {
	if !s.isStopped.CompareAndSwap(false, true) {
		return false
	}
	s.init()
	close(s.done)
	return true
}

func (s *Stopper) Done() <-chan struct{} {
	s.init()
	return s.done
}
