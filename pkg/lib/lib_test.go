package lib

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMpscOrderPerProducer(t *testing.T) {
	q := NewMpsc[int]()
	const producers, per = 8, 1000

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				q.Push(p*per + i)
			}
		}(p)
	}
	wg.Wait()

	// 同一生产者的元素保持入队顺序
	last := make([]int, producers)
	for i := range last {
		last[i] = -1
	}
	count := 0
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		p, i := v/per, v%per
		require.Greater(t, i, last[p])
		last[p] = i
		count++
	}
	require.Equal(t, producers*per, count)
	require.True(t, q.Empty())
	require.Equal(t, 0, q.Len())
}

func TestBufferPeekDiscard(t *testing.T) {
	b := NewBuffer(4)
	_, _ = b.Write([]byte("hello"))
	_ = b.WriteByte('!')
	require.Equal(t, 6, b.InboundBuffered())

	p, err := b.Peek(5)
	require.NoError(t, err)
	require.Equal(t, "hello", string(p))

	_, err = b.Peek(7)
	require.ErrorIs(t, err, ErrInsufficientData)

	n, err := b.Discard(5)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "!", b.String())

	n, err = b.Discard(10)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, 0, b.Len())
}

func TestBufferGrowAfterRead(t *testing.T) {
	b := NewBuffer(8)
	_, _ = b.Write([]byte("abcdef"))
	require.NoError(t, b.Skip(4))
	_, _ = b.Write([]byte("0123456789"))
	require.Equal(t, "ef0123456789", b.String())

	ext := b.Extend(2)
	copy(ext, "xy")
	require.Equal(t, "ef0123456789xy", string(b.Readable()))
}

func TestWrapBuffer(t *testing.T) {
	b := WrapBuffer([]byte{1, 2, 3})
	c, err := b.ReadByte()
	require.NoError(t, err)
	require.Equal(t, byte(1), c)
	require.Equal(t, 2, b.Len())
}
