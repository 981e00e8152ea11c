package gnetx

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dzm2020/gipc/pkg/transport"
)

func freeAddr(t *testing.T) string {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestServerClientFrames(t *testing.T) {
	addr := freeAddr(t)
	accepted := make(chan *Conn, 1)
	srv := NewServer("tcp://"+addr, func(c *Conn) { accepted <- c }, WithMulticore(false))
	require.NoError(t, srv.Start())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	}()

	cli, err := NewClient(WithMulticore(false))
	require.NoError(t, err)
	defer cli.Stop()

	conn, err := cli.Dial("tcp", addr)
	require.NoError(t, err)

	for i := 0; i < 50; i++ {
		require.NoError(t, conn.Send([]byte(fmt.Sprintf("frame-%d", i))))
	}

	var peer *Conn
	select {
	case peer = <-accepted:
	case <-time.After(3 * time.Second):
		t.Fatal("no connection accepted")
	}
	for i := 0; i < 50; i++ {
		f, err := peer.Recv()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("frame-%d", i), string(f))
	}

	// 反方向
	require.NoError(t, peer.Send([]byte("pong")))
	f, err := conn.Recv()
	require.NoError(t, err)
	require.Equal(t, "pong", string(f))

	require.NoError(t, conn.Close())
	_, err = peer.Recv()
	require.Error(t, err)
	_, err = conn.Recv()
	require.ErrorIs(t, err, transport.ErrClosed)
}
