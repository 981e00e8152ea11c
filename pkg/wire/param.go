package wire

import (
	"google.golang.org/protobuf/proto"

	"github.com/dzm2020/gipc/pkg/lib/serializer"
)

// Param 可在消息里传输的参数类型
// 对任意取值 Decode(Encode(v)) 必须得到相等的值
type Param interface {
	MarshalIPC(w *Writer)
	UnmarshalIPC(r *Reader) error
}

// Encode p 为 nil 时返回空负载
func Encode(p Param) ([]byte, error) {
	if p == nil {
		return nil, nil
	}
	w := NewWriter()
	p.MarshalIPC(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode 要求负载恰好被 p 读完
func Decode(data []byte, p Param) error {
	r := NewReader(data)
	if p != nil {
		if err := p.UnmarshalIPC(r); err != nil {
			return err
		}
	}
	return r.Done()
}

// Empty 没有参数的消息
type Empty struct{}

func (Empty) MarshalIPC(*Writer) {}

func (Empty) UnmarshalIPC(*Reader) error { return nil }

// Msgpack 用 msgpack 传输任意值
type Msgpack[T any] struct {
	V T
}

func (m *Msgpack[T]) MarshalIPC(w *Writer) {
	w.WriteValue(serializer.MsgPack, m.V)
}

func (m *Msgpack[T]) UnmarshalIPC(r *Reader) error {
	return r.ReadValue("msgpack", serializer.MsgPack, &m.V)
}

// Proto 传输 protobuf 消息，解码前 V 必须是已分配的空消息
type Proto[T proto.Message] struct {
	V T
}

func (m *Proto[T]) MarshalIPC(w *Writer) {
	w.WriteValue(serializer.PB, m.V)
}

func (m *Proto[T]) UnmarshalIPC(r *Reader) error {
	return r.ReadValue("protobuf", serializer.PB, m.V)
}

// Strings 字符串数组
type Strings []string

func (s *Strings) MarshalIPC(w *Writer) {
	w.WriteUint32(uint32(len(*s)))
	for _, v := range *s {
		w.WriteString(v)
	}
}

func (s *Strings) UnmarshalIPC(r *Reader) error {
	n, err := r.ReadUint32("strings.len")
	if err != nil {
		return err
	}
	// 每个元素至少 4 字节长度前缀
	if int(n) > r.Remaining()/4 {
		return r.errorf("strings.len", ErrTooLarge)
	}
	out := make([]string, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := r.ReadString("strings.item")
		if err != nil {
			return err
		}
		out = append(out, v)
	}
	*s = out
	return nil
}
