package wire

import (
	"errors"
	"fmt"
)

var (
	ErrShortBuffer   = errors.New("wire: short buffer")
	ErrTooLarge      = errors.New("wire: length too large")
	ErrTrailingBytes = errors.New("wire: trailing bytes")
	ErrInvalidBool   = errors.New("wire: invalid bool")
)

// DeserializeError 反序列化失败，记录出错字段和偏移
type DeserializeError struct {
	Field  string
	Offset int
	Err    error
}

func (e *DeserializeError) Error() string {
	return fmt.Sprintf("wire: decode %s at offset %d: %v", e.Field, e.Offset, e.Err)
}

func (e *DeserializeError) Unwrap() error {
	return e.Err
}

// IsDeserializeError err 链上是否有 DeserializeError
func IsDeserializeError(err error) bool {
	var de *DeserializeError
	return errors.As(err, &de)
}
