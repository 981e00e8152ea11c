// Package testproto 测试和示例用的两层协议：PTest 管理 PSub
//
// 结构与生成代码一致：消息类型、协议描述、actor 类型、收发桩
package testproto

import (
	"github.com/dzm2020/gipc/pkg/wire"
)

type EchoRequest struct {
	Text string
}

func (m *EchoRequest) MarshalIPC(w *wire.Writer) {
	w.WriteString(m.Text)
}

func (m *EchoRequest) UnmarshalIPC(r *wire.Reader) (err error) {
	m.Text, err = r.ReadString("EchoRequest.Text")
	return
}

type EchoReply struct {
	Text string
}

func (m *EchoReply) MarshalIPC(w *wire.Writer) {
	w.WriteString(m.Text)
}

func (m *EchoReply) UnmarshalIPC(r *wire.Reader) (err error) {
	m.Text, err = r.ReadString("EchoReply.Text")
	return
}

// RelayRequest 每一跳减一，两端交替嵌套调用
type RelayRequest struct {
	Hops  uint32
	Trace wire.Strings
}

func (m *RelayRequest) MarshalIPC(w *wire.Writer) {
	w.WriteUint32(m.Hops)
	m.Trace.MarshalIPC(w)
}

func (m *RelayRequest) UnmarshalIPC(r *wire.Reader) (err error) {
	if m.Hops, err = r.ReadUint32("RelayRequest.Hops"); err != nil {
		return
	}
	return m.Trace.UnmarshalIPC(r)
}

type RelayReply struct {
	Trace wire.Strings
}

func (m *RelayReply) MarshalIPC(w *wire.Writer) {
	m.Trace.MarshalIPC(w)
}

func (m *RelayReply) UnmarshalIPC(r *wire.Reader) error {
	return m.Trace.UnmarshalIPC(r)
}

type Note struct {
	Seq  uint32
	Text string
}

func (m *Note) MarshalIPC(w *wire.Writer) {
	w.WriteUint32(m.Seq)
	w.WriteString(m.Text)
}

func (m *Note) UnmarshalIPC(r *wire.Reader) (err error) {
	if m.Seq, err = r.ReadUint32("Note.Seq"); err != nil {
		return
	}
	m.Text, err = r.ReadString("Note.Text")
	return
}

type Alert struct {
	Level uint8
	Text  string
}

func (m *Alert) MarshalIPC(w *wire.Writer) {
	w.WriteUint8(m.Level)
	w.WriteString(m.Text)
}

func (m *Alert) UnmarshalIPC(r *wire.Reader) (err error) {
	if m.Level, err = r.ReadUint8("Alert.Level"); err != nil {
		return
	}
	m.Text, err = r.ReadString("Alert.Text")
	return
}

// SubArgs PSub 构造参数
type SubArgs struct {
	Name string
}

func (m *SubArgs) MarshalIPC(w *wire.Writer) {
	w.WriteString(m.Name)
}

func (m *SubArgs) UnmarshalIPC(r *wire.Reader) (err error) {
	m.Name, err = r.ReadString("SubArgs.Name")
	return
}

type AddRequest struct {
	A, B int64
}

func (m *AddRequest) MarshalIPC(w *wire.Writer) {
	w.WriteInt64(m.A)
	w.WriteInt64(m.B)
}

func (m *AddRequest) UnmarshalIPC(r *wire.Reader) (err error) {
	if m.A, err = r.ReadInt64("AddRequest.A"); err != nil {
		return
	}
	m.B, err = r.ReadInt64("AddRequest.B")
	return
}

type AddReply struct {
	Sum int64
}

func (m *AddReply) MarshalIPC(w *wire.Writer) {
	w.WriteInt64(m.Sum)
}

func (m *AddReply) UnmarshalIPC(r *wire.Reader) (err error) {
	m.Sum, err = r.ReadInt64("AddReply.Sum")
	return
}
