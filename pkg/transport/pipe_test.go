package transport

import (
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPipeOrder(t *testing.T) {
	a, b := Pipe()
	defer a.Close()
	defer b.Close()

	go func() {
		for i := 0; i < 100; i++ {
			_ = a.Send([]byte(fmt.Sprint(i)), []byte("x"))
		}
	}()
	for i := 0; i < 100; i++ {
		f, err := b.Recv()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprint(i), string(f))
		f, err = b.Recv()
		require.NoError(t, err)
		require.Equal(t, "x", string(f))
	}
}

func TestPipeCloseDrains(t *testing.T) {
	a, b := Pipe()
	require.NoError(t, a.Send([]byte("last")))
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	f, err := b.Recv()
	require.NoError(t, err)
	require.Equal(t, "last", string(f))

	_, err = b.Recv()
	require.ErrorIs(t, err, io.EOF)

	// 对端已关闭，写入失败
	require.Error(t, b.Send([]byte("late")))
	require.ErrorIs(t, a.Send([]byte("x")), ErrClosed)
	_, err = a.Recv()
	require.ErrorIs(t, err, ErrClosed)
}
