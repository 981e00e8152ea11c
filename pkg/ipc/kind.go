package ipc

import (
	"fmt"
)

// ProtocolID 协议编号，0 保留给通道控制消息
type ProtocolID uint16

// MsgKind 高 16 位为协议编号，低 16 位为消息序号，序号最高位标记回复
type MsgKind uint32

const replyBit MsgKind = 1 << 15

const controlProtocol ProtocolID = 0

// KindGoodbye 有序关闭时发给对端的最后一条消息
const KindGoodbye = MsgKind(uint32(controlProtocol)<<16 | 1)

// MakeKind 序号的最高位会被忽略
func MakeKind(p ProtocolID, index uint16) MsgKind {
	return MsgKind(uint32(p)<<16|uint32(index)) &^ replyBit
}

func (k MsgKind) Protocol() ProtocolID {
	return ProtocolID(k >> 16)
}

func (k MsgKind) Index() uint16 {
	return uint16(k &^ replyBit)
}

func (k MsgKind) IsReply() bool {
	return k&replyBit != 0
}

// Reply 调用消息对应的回复类型
func (k MsgKind) Reply() MsgKind {
	return k | replyBit
}

// Request 回复对应的调用类型
func (k MsgKind) Request() MsgKind {
	return k &^ replyBit
}

func (k MsgKind) String() string {
	if k.IsReply() {
		return fmt.Sprintf("%d:%d/reply", k.Protocol(), k.Index())
	}
	return fmt.Sprintf("%d:%d", k.Protocol(), k.Index())
}

// Semantics 消息语义
type Semantics uint8

const (
	// SemSend 单向
	SemSend Semantics = iota
	// SemCall 阻塞等待回复
	SemCall
)

func (s Semantics) String() string {
	if s == SemCall {
		return "call"
	}
	return "send"
}

// Priority 只影响发送端的刷新时机，不改变顺序
type Priority uint8

const (
	PriorityNormal Priority = iota
	PriorityHigh
	PriorityControl
)

func (p Priority) String() string {
	switch p {
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityControl:
		return "control"
	}
	return fmt.Sprintf("priority(%d)", uint8(p))
}
