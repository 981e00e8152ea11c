package wire

import (
	"encoding/binary"
	"math"

	"github.com/dzm2020/gipc/pkg/lib"
	"github.com/dzm2020/gipc/pkg/lib/serializer"
)

// MaxLength 单个变长字段的上限
const MaxLength = 16 << 20

// Reader 大端序读取器，越界和非法长度返回 *DeserializeError
type Reader struct {
	buf *lib.Buffer
	off int
}

func NewReader(data []byte) *Reader {
	return &Reader{buf: lib.WrapBuffer(data)}
}

func (r *Reader) errorf(field string, err error) error {
	return &DeserializeError{Field: field, Offset: r.off, Err: err}
}

func (r *Reader) next(field string, n int) ([]byte, error) {
	p, err := r.buf.Peek(n)
	if err != nil {
		return nil, r.errorf(field, ErrShortBuffer)
	}
	_ = r.buf.Skip(n)
	r.off += n
	return p, nil
}

func (r *Reader) ReadUint8(field string) (uint8, error) {
	p, err := r.next(field, 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (r *Reader) ReadUint16(field string) (uint16, error) {
	p, err := r.next(field, 2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (r *Reader) ReadUint32(field string) (uint32, error) {
	p, err := r.next(field, 4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (r *Reader) ReadUint64(field string) (uint64, error) {
	p, err := r.next(field, 8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (r *Reader) ReadInt32(field string) (int32, error) {
	v, err := r.ReadUint32(field)
	return int32(v), err
}

func (r *Reader) ReadInt64(field string) (int64, error) {
	v, err := r.ReadUint64(field)
	return int64(v), err
}

func (r *Reader) ReadFloat64(field string) (float64, error) {
	v, err := r.ReadUint64(field)
	return math.Float64frombits(v), err
}

func (r *Reader) ReadBool(field string) (bool, error) {
	v, err := r.ReadUint8(field)
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	}
	return false, r.errorf(field, ErrInvalidBool)
}

func (r *Reader) readLength(field string) (int, error) {
	n, err := r.ReadUint32(field)
	if err != nil {
		return 0, err
	}
	if n > MaxLength {
		return 0, r.errorf(field, ErrTooLarge)
	}
	if int(n) > r.buf.Len() {
		return 0, r.errorf(field, ErrShortBuffer)
	}
	return int(n), nil
}

// ReadBytes 返回的切片是副本
func (r *Reader) ReadBytes(field string) ([]byte, error) {
	n, err := r.readLength(field)
	if err != nil {
		return nil, err
	}
	p, err := r.next(field, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, p)
	return out, nil
}

func (r *Reader) ReadString(field string) (string, error) {
	n, err := r.readLength(field)
	if err != nil {
		return "", err
	}
	p, err := r.next(field, n)
	if err != nil {
		return "", err
	}
	return string(p), nil
}

// ReadValue 读取 WriteValue 写入的内容并用序列化器解码到 v
func (r *Reader) ReadValue(field string, s serializer.ISerializer, v interface{}) error {
	data, err := r.ReadBytes(field)
	if err != nil {
		return err
	}
	if err := s.Unmarshal(data, v); err != nil {
		return r.errorf(field, err)
	}
	return nil
}

// Rest 读取剩余全部内容，不复制
func (r *Reader) Rest() []byte {
	p := r.buf.Bytes()
	r.off += len(p)
	r.buf.Reset()
	return p
}

func (r *Reader) Remaining() int {
	return r.buf.Len()
}

func (r *Reader) Offset() int {
	return r.off
}

// Done 检查是否还有未读内容
func (r *Reader) Done() error {
	if r.buf.Len() != 0 {
		return r.errorf("end", ErrTrailingBytes)
	}
	return nil
}
