package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnLoopback(t *testing.T) {
	ln, err := Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan *Conn, 1)
	go func() {
		c, err := ln.Accept()
		if err == nil {
			accepted <- c
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client, err := Dial(ctx, "tcp", ln.Addr().String(), WithReadBufSize(64))
	require.NoError(t, err)
	server := <-accepted

	big := bytes.Repeat([]byte("abc"), 10000)
	require.NoError(t, client.Send([]byte("one"), big))
	require.NoError(t, client.Send([]byte("two")))

	for _, want := range [][]byte{[]byte("one"), big, []byte("two")} {
		f, err := server.Recv()
		require.NoError(t, err)
		require.Equal(t, want, f)
	}

	// 对端关闭后读到 EOF
	require.NoError(t, client.Close())
	_, err = server.Recv()
	require.ErrorIs(t, err, io.EOF)
	require.NoError(t, server.Close())
	require.ErrorIs(t, server.Send([]byte("x")), ErrClosed)
}

func TestConnRejectsOversizedFrame(t *testing.T) {
	a, b := net.Pipe()
	sender := NewConn(a)
	receiver := NewConn(b, WithMaxFrameSize(8))
	defer sender.Close()
	defer receiver.Close()

	go func() { _ = sender.Send(bytes.Repeat([]byte{1}, 64)) }()
	_, err := receiver.Recv()
	require.ErrorIs(t, err, ErrFrameTooLarge)

	require.ErrorIs(t, receiver.Send(make([]byte, 9)), ErrFrameTooLarge)
}
