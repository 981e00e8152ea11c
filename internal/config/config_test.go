package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "gipc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadPartial(t *testing.T) {
	path := writeFile(t, `
glog:
  level: debug
channel:
  sendBatch: 8
  callTimeout: 3s
transport:
  kind: gnet
  address: 127.0.0.1:9900
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.Glog.Level)
	require.Equal(t, Default().Glog.Path, cfg.Glog.Path)
	require.Equal(t, 8, cfg.Channel.SendBatch)
	require.Equal(t, 3*time.Second, cfg.Channel.CallTimeout)
	require.Equal(t, "gipc", cfg.Channel.Name)
	require.Equal(t, TransportGnet, cfg.Transport.Kind)
	require.Equal(t, "127.0.0.1:9900", cfg.Transport.Address)
	require.Equal(t, Default().Transport.Nats.Servers, cfg.Transport.Nats.Servers)
	require.Len(t, cfg.ChannelOptions(), 4)
}

func TestMarshalLoadRoundTrip(t *testing.T) {
	want := Default()
	want.Transport.Kind = TransportNats
	want.Transport.Nats.Local = "x.local"
	want.Transport.Nats.Peer = "x.peer"
	want.Channel.MaxProtocolErrors = 5
	want.Metrics.Enabled = true

	data, err := want.Marshal()
	require.NoError(t, err)
	got, err := Load(writeFile(t, string(data)))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = Load(writeFile(t, "transport:\n  kind: carrier-pigeon\n"))
	require.ErrorContains(t, err, "unknown transport kind")

	_, err = Load(writeFile(t, "channel:\n  sendBatch: -1\n"))
	require.Error(t, err)
}
