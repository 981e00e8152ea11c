package lib

import (
	"sync/atomic"
)

type node[T any] struct {
	next atomic.Pointer[node[T]]
	val  T
}

// Mpsc 无锁多生产者单消费者队列
// Push 可以并发调用，Pop 和 Empty 只能由同一个消费者调用
type Mpsc[T any] struct {
	head atomic.Pointer[node[T]]
	tail *node[T]
	size atomic.Int64
}

func NewMpsc[T any]() *Mpsc[T] {
	q := &Mpsc[T]{}
	stub := &node[T]{}
	q.head.Store(stub)
	q.tail = stub
	return q
}

func (q *Mpsc[T]) Push(x T) {
	n := &node[T]{val: x}
	q.size.Add(1)
	prev := q.head.Swap(n)
	prev.next.Store(n)
}

func (q *Mpsc[T]) Pop() (T, bool) {
	var zero T
	next := q.tail.next.Load()
	if next == nil {
		return zero, false
	}
	q.tail = next
	v := next.val
	next.val = zero
	q.size.Add(-1)
	return v, true
}

func (q *Mpsc[T]) Empty() bool {
	return q.tail.next.Load() == nil
}

// Len 近似长度，只用于统计
func (q *Mpsc[T]) Len() int {
	return int(q.size.Load())
}
