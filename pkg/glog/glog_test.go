package glog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLevel(t *testing.T) {
	defer Init(ConsoleConfig("info"))

	Init(ConsoleConfig("debug"))
	require.Equal(t, zapcore.DebugLevel, GetLevel())
	require.True(t, Enabled(zapcore.DebugLevel))

	Init(ConsoleConfig("WARN"))
	require.Equal(t, zapcore.WarnLevel, GetLevel())
	require.False(t, Enabled(zapcore.InfoLevel))

	// 未知级别回落到 info
	Init(ConsoleConfig("verbose"))
	require.Equal(t, zapcore.InfoLevel, GetLevel())
}

func TestInitWithFile(t *testing.T) {
	defer Init(ConsoleConfig("info"))

	cfg := DefaultConfig()
	cfg.Path = filepath.Join(t.TempDir(), "gipc.log")
	cfg.PrintConsole = false
	Init(cfg)
	Info("file logger ready", zap.String("path", cfg.Path))
	Stop()
	require.FileExists(t, cfg.Path)
}

func TestReplaceLogger(t *testing.T) {
	defer Init(ConsoleConfig("info"))

	SetLogLevel(zapcore.InfoLevel)
	core, logs := observer.New(atomicLevel)
	ReplaceLogger(zap.New(core))
	Warn("channel closed", zap.String("channel", "c1"))
	Debug("filtered")
	SetLogLevel(zapcore.DebugLevel)
	Debug("actors", zap.Int("n", 3))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "channel closed", entries[0].Message)
	require.Equal(t, "c1", entries[0].ContextMap()["channel"])
	require.Equal(t, "actors", entries[1].Message)
	require.EqualValues(t, 3, entries[1].ContextMap()["n"])
}
