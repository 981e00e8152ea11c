package lib

import (
	"errors"
	"io"
)

var (
	ErrInsufficientData = errors.New("insufficient data")
)

const maxBufferCap = 1024 * 1024 * 64

// Buffer 读写指针分离的字节缓冲区
// 同时满足 gnet.Reader 风格的 InboundBuffered/Peek/Discard，供帧解码复用
type Buffer struct {
	buf []byte
	r   int // 读指针
	w   int // 写指针
}

// NewBuffer 创建一个指定初始容量的缓冲区
func NewBuffer(initialCap int) *Buffer {
	if initialCap <= 0 {
		initialCap = 4096
	}
	return &Buffer{
		buf: make([]byte, initialCap),
	}
}

// WrapBuffer 直接包装已有数据，不复制
func WrapBuffer(data []byte) *Buffer {
	return &Buffer{buf: data, w: len(data)}
}

// Len 可读取的字节数
func (b *Buffer) Len() int {
	return b.w - b.r
}

// InboundBuffered 同 Len
func (b *Buffer) InboundBuffered() int {
	return b.w - b.r
}

func (b *Buffer) Cap() int {
	return len(b.buf)
}

// Available 剩余可写入的空间
func (b *Buffer) Available() int {
	return len(b.buf) - b.w
}

// Reset 清空数据，指针归零
func (b *Buffer) Reset() {
	b.r = 0
	b.w = 0
}

// Bytes 返回当前可读取的数据切片（不复制）
func (b *Buffer) Bytes() []byte {
	return b.buf[b.r:b.w]
}

// Readable 返回可读取的数据切片（复制）
func (b *Buffer) Readable() []byte {
	data := make([]byte, b.Len())
	copy(data, b.buf[b.r:b.w])
	return data
}

// 确保有足够的写入空间，不够则先压缩再扩容
func (b *Buffer) ensureSpace(n int) {
	if b.Available() >= n {
		return
	}
	if b.r > 0 {
		copy(b.buf, b.buf[b.r:b.w])
		b.w -= b.r
		b.r = 0
	}
	if b.Available() >= n {
		return
	}
	newCap := len(b.buf)
	if newCap == 0 {
		newCap = 64
	}
	for newCap-b.w < n {
		newCap *= 2
		if newCap > maxBufferCap {
			newCap = b.w + n
			break
		}
	}
	newBuf := make([]byte, newCap)
	copy(newBuf, b.buf[:b.w])
	b.buf = newBuf
}

// Write 写入字节切片到缓冲区
func (b *Buffer) Write(data []byte) (int, error) {
	if len(data) == 0 {
		return 0, nil
	}
	b.ensureSpace(len(data))
	n := copy(b.buf[b.w:], data)
	b.w += n
	return n, nil
}

// WriteByte 写入单个字节
func (b *Buffer) WriteByte(c byte) error {
	b.ensureSpace(1)
	b.buf[b.w] = c
	b.w++
	return nil
}

// Extend 预留 n 个字节并返回这段可写切片，写指针同时后移
func (b *Buffer) Extend(n int) []byte {
	b.ensureSpace(n)
	p := b.buf[b.w : b.w+n]
	b.w += n
	return p
}

// Read 从缓冲区读取数据到p
func (b *Buffer) Read(p []byte) (int, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.buf[b.r:b.w])
	b.r += n
	return n, nil
}

// ReadByte 读取单个字节
func (b *Buffer) ReadByte() (byte, error) {
	if b.Len() == 0 {
		return 0, io.EOF
	}
	c := b.buf[b.r]
	b.r++
	return c, nil
}

// Peek 查看前n个字节（不移动读指针）
func (b *Buffer) Peek(n int) ([]byte, error) {
	if n <= 0 {
		return []byte{}, nil
	}
	if b.Len() < n {
		return nil, ErrInsufficientData
	}
	return b.buf[b.r : b.r+n], nil
}

// Skip 跳过n个字节
func (b *Buffer) Skip(n int) error {
	if n <= 0 {
		return nil
	}
	if b.Len() < n {
		return ErrInsufficientData
	}
	b.r += n
	if b.r == b.w {
		b.Reset()
	}
	return nil
}

// Discard 丢弃n个字节，返回实际丢弃数量
func (b *Buffer) Discard(n int) (int, error) {
	if n > b.Len() {
		n = b.Len()
	}
	if err := b.Skip(n); err != nil {
		return 0, err
	}
	return n, nil
}

func (b *Buffer) String() string {
	return string(b.buf[b.r:b.w])
}
