package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed 本端已关闭
	ErrClosed = errors.New("transport: closed")
	// ErrFrameTooLarge 帧长度超过上限
	ErrFrameTooLarge = errors.New("transport: frame too large")
)

func errFrameSize(n, max int) error {
	return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, max)
}
