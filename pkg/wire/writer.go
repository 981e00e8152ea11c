package wire

import (
	"encoding/binary"
	"math"

	"github.com/dzm2020/gipc/pkg/lib"
	"github.com/dzm2020/gipc/pkg/lib/serializer"
)

// Writer 大端序写入器，出错后后续写入全部忽略，错误由 Err 取出
type Writer struct {
	buf *lib.Buffer
	err error
}

func NewWriter() *Writer {
	return &Writer{buf: lib.NewBuffer(64)}
}

// NewWriterSize 预留 n 字节
func NewWriterSize(n int) *Writer {
	return &Writer{buf: lib.NewBuffer(n)}
}

func (w *Writer) WriteUint8(v uint8) {
	if w.err != nil {
		return
	}
	_ = w.buf.WriteByte(v)
}

func (w *Writer) WriteUint16(v uint16) {
	if w.err != nil {
		return
	}
	binary.BigEndian.PutUint16(w.buf.Extend(2), v)
}

func (w *Writer) WriteUint32(v uint32) {
	if w.err != nil {
		return
	}
	binary.BigEndian.PutUint32(w.buf.Extend(4), v)
}

func (w *Writer) WriteUint64(v uint64) {
	if w.err != nil {
		return
	}
	binary.BigEndian.PutUint64(w.buf.Extend(8), v)
}

func (w *Writer) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

func (w *Writer) WriteInt64(v int64) {
	w.WriteUint64(uint64(v))
}

func (w *Writer) WriteFloat64(v float64) {
	w.WriteUint64(math.Float64bits(v))
}

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

// WriteBytes u32 长度前缀 + 内容
func (w *Writer) WriteBytes(p []byte) {
	if w.err != nil {
		return
	}
	if len(p) > MaxLength {
		w.fail(ErrTooLarge)
		return
	}
	w.WriteUint32(uint32(len(p)))
	_, _ = w.buf.Write(p)
}

func (w *Writer) WriteString(s string) {
	if w.err != nil {
		return
	}
	if len(s) > MaxLength {
		w.fail(ErrTooLarge)
		return
	}
	w.WriteUint32(uint32(len(s)))
	copy(w.buf.Extend(len(s)), s)
}

// WriteRaw 不带长度前缀，只能用在消息末尾
func (w *Writer) WriteRaw(p []byte) {
	if w.err != nil {
		return
	}
	_, _ = w.buf.Write(p)
}

// WriteValue 用序列化器编码 v 后按 WriteBytes 写入
func (w *Writer) WriteValue(s serializer.ISerializer, v interface{}) {
	if w.err != nil {
		return
	}
	data, err := s.Marshal(v)
	if err != nil {
		w.fail(err)
		return
	}
	w.WriteBytes(data)
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) Len() int {
	return w.buf.Len()
}

// Bytes 返回已写入内容，不复制
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}
