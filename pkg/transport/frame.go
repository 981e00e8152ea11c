package transport

import (
	"encoding/binary"
)

// HeadLen 帧头: u32 大端长度
const HeadLen = 4

// Reader 帧解码的输入，gnet.Conn 和 lib.Buffer 都满足
type Reader interface {
	InboundBuffered() int
	Peek(n int) ([]byte, error)
	Discard(n int) (int, error)
}

// EncodeFrame 帧头 + 内容
func EncodeFrame(body []byte) []byte {
	buf := make([]byte, HeadLen+len(body))
	binary.BigEndian.PutUint32(buf, uint32(len(body)))
	copy(buf[HeadLen:], body)
	return buf
}

// FrameHeader 只编码帧头，配合 net.Buffers 避免复制内容
func FrameHeader(n int) []byte {
	hdr := make([]byte, HeadLen)
	binary.BigEndian.PutUint32(hdr, uint32(n))
	return hdr
}

// DecodeFrames 取出 reader 里所有完整的帧，不完整的部分留在 reader 里
// 帧长度超过 max 时返回 ErrFrameTooLarge，连接应当关闭
func DecodeFrames(reader Reader, max int) (frames [][]byte, err error) {
	for {
		if reader.InboundBuffered() < HeadLen {
			return
		}
		var buf []byte
		buf, err = reader.Peek(HeadLen)
		if err != nil {
			return
		}
		l := int(binary.BigEndian.Uint32(buf))
		if l > max {
			err = errFrameSize(l, max)
			return
		}
		total := HeadLen + l
		if reader.InboundBuffered() < total {
			return
		}
		buf, err = reader.Peek(total)
		if err != nil {
			return
		}
		body := make([]byte, l)
		copy(body, buf[HeadLen:])
		frames = append(frames, body)
		_, _ = reader.Discard(total)
	}
}
