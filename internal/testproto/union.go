package testproto

import (
	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/wire"
)

// PTestMessage PTest 方向上可以收到的消息
type PTestMessage interface {
	wire.Param
	isPTestMessage()
}

// PSubMessage PSub 方向上可以收到的消息
type PSubMessage interface {
	wire.Param
	isPSubMessage()
}

// PSubConstructor 构造消息，Peer 是发起方给子 actor 分配的编号
type PSubConstructor struct {
	Peer ipc.ActorID
	Args SubArgs
}

func (m *PSubConstructor) MarshalIPC(w *wire.Writer) {
	w.WriteUint32(uint32(m.Peer))
	m.Args.MarshalIPC(w)
}

func (m *PSubConstructor) UnmarshalIPC(r *wire.Reader) error {
	peer, err := ipc.DecodeConstructor(r.Rest(), &m.Args)
	m.Peer = peer
	return err
}

// DeleteMessage 析构消息，没有参数
type DeleteMessage struct {
	wire.Empty
}

func (*EchoRequest) isPTestMessage()     {}
func (*RelayRequest) isPTestMessage()    {}
func (*Note) isPTestMessage()            {}
func (*Alert) isPTestMessage()           {}
func (*PSubConstructor) isPTestMessage() {}

func (*AddRequest) isPSubMessage()      {}
func (*Note) isPSubMessage()            {}
func (*DeleteMessage) isPSubMessage()   {}
func (*PSubConstructor) isPSubMessage() {}

// DecodePTest 按消息类型解码，未知类型返回 nil, nil
func DecodePTest(kind ipc.MsgKind, payload []byte) (PTestMessage, error) {
	var msg PTestMessage
	switch kind {
	case KindEcho:
		msg = new(EchoRequest)
	case KindRelay:
		msg = new(RelayRequest)
	case KindNotify:
		msg = new(Note)
	case KindAlert:
		msg = new(Alert)
	case KindPSubConstructor:
		msg = new(PSubConstructor)
	default:
		return nil, nil
	}
	if err := wire.Decode(payload, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func DecodePSub(kind ipc.MsgKind, payload []byte) (PSubMessage, error) {
	var msg PSubMessage
	switch kind {
	case KindAdd:
		msg = new(AddRequest)
	case KindPoke:
		msg = new(Note)
	case KindDelete:
		msg = new(DeleteMessage)
	case KindChildConstructor:
		msg = new(PSubConstructor)
	default:
		return nil, nil
	}
	if err := wire.Decode(payload, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
