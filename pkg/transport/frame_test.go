package transport

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dzm2020/gipc/pkg/lib"
)

func TestDecodeFramesPartial(t *testing.T) {
	var stream []byte
	stream = append(stream, EncodeFrame([]byte("first"))...)
	stream = append(stream, EncodeFrame(nil)...)
	stream = append(stream, EncodeFrame(bytes.Repeat([]byte{7}, 300))...)

	// 逐字节喂入，帧只在完整时出现
	buf := lib.NewBuffer(8)
	var got [][]byte
	for i := range stream {
		_, _ = buf.Write(stream[i : i+1])
		frames, err := DecodeFrames(buf, DefaultMaxFrameSize)
		require.NoError(t, err)
		got = append(got, frames...)
	}
	require.Len(t, got, 3)
	require.Equal(t, "first", string(got[0]))
	require.Empty(t, got[1])
	require.Len(t, got[2], 300)
	require.Equal(t, 0, buf.InboundBuffered())
}

func TestDecodeFramesTooLarge(t *testing.T) {
	buf := lib.NewBuffer(16)
	_, _ = buf.Write(FrameHeader(1024))
	_, err := DecodeFrames(buf, 512)
	require.ErrorIs(t, err, ErrFrameTooLarge)
}
