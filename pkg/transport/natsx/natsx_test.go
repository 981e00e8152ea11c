package natsx

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzm2020/gipc/pkg/transport"
)

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Peer = cfg.Local
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Servers = nil
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Username = "u"
	require.Error(t, cfg.Validate())
}

// 需要可用的 NATS 服务，例如 NATS_URL=nats://127.0.0.1:4222
func TestConnPair(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}
	cfg := DefaultConfig()
	cfg.Servers = []string{url}
	nc, err := Connect(cfg)
	require.NoError(t, err)
	defer nc.Close()

	local := fmt.Sprintf("gipc.test.%d.a", os.Getpid())
	peer := fmt.Sprintf("gipc.test.%d.b", os.Getpid())
	a, err := New(nc, local, peer)
	require.NoError(t, err)
	b, err := New(nc, peer, local)
	require.NoError(t, err)
	require.NoError(t, nc.Flush())

	for i := 0; i < 20; i++ {
		require.NoError(t, a.Send([]byte(fmt.Sprint(i))))
	}
	for i := 0; i < 20; i++ {
		f, err := b.Recv()
		require.NoError(t, err)
		require.Equal(t, fmt.Sprint(i), string(f))
	}

	require.NoError(t, b.Close())
	_, err = b.Recv()
	require.ErrorIs(t, err, transport.ErrClosed)
	require.ErrorIs(t, b.Send([]byte("x")), transport.ErrClosed)
	require.NoError(t, a.Close())
}
