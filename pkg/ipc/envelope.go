package ipc

import (
	"errors"

	"github.com/dzm2020/gipc/pkg/wire"
)

type envelopeFlags uint8

const (
	flagCall envelopeFlags = 1 << iota
	flagReply
	flagError
)

const flagMask = flagCall | flagReply | flagError

// HeaderLen routing u32 | kind u32 | priority u8 | flags u8 | seqno u64
const HeaderLen = 4 + 4 + 1 + 1 + 8

var (
	errBadFlags    = errors.New("inconsistent envelope flags")
	errBadPriority = errors.New("unknown priority")
)

// Envelope 通道上传输的一条消息
type Envelope struct {
	// RoutingID 接收端的 actor 编号
	RoutingID ActorID
	Kind      MsgKind
	Priority  Priority
	// Seqno 调用序号，回复沿用调用的序号，单向消息为 0
	Seqno   int64
	Payload []byte
	flags   envelopeFlags
}

// NewEnvelope 构造待发送的信封，Call/Send 时由通道决定标志位
func NewEnvelope(route ActorID, kind MsgKind, priority Priority, payload []byte) *Envelope {
	return &Envelope{
		RoutingID: route,
		Kind:      kind,
		Priority:  priority,
		Payload:   payload,
	}
}

func (e *Envelope) IsCall() bool {
	return e.flags&flagCall != 0
}

func (e *Envelope) IsReply() bool {
	return e.flags&flagReply != 0
}

// IsError 失败调用的回复，负载是 callFailure
func (e *Envelope) IsError() bool {
	return e.flags&flagError != 0
}

// Marshal 编码信封头和负载，长度前缀由传输层负责
func (e *Envelope) Marshal() []byte {
	w := wire.NewWriterSize(HeaderLen + len(e.Payload))
	w.WriteUint32(uint32(e.RoutingID))
	w.WriteUint32(uint32(e.Kind))
	w.WriteUint8(uint8(e.Priority))
	w.WriteUint8(uint8(e.flags))
	w.WriteInt64(e.Seqno)
	w.WriteRaw(e.Payload)
	return w.Bytes()
}

// UnmarshalEnvelope 负载引用 data，不复制
func UnmarshalEnvelope(data []byte) (*Envelope, error) {
	r := wire.NewReader(data)
	route, err := r.ReadUint32("routing")
	if err != nil {
		return nil, err
	}
	kind, err := r.ReadUint32("kind")
	if err != nil {
		return nil, err
	}
	prio, err := r.ReadUint8("priority")
	if err != nil {
		return nil, err
	}
	flags, err := r.ReadUint8("flags")
	if err != nil {
		return nil, err
	}
	seqno, err := r.ReadInt64("seqno")
	if err != nil {
		return nil, err
	}
	e := &Envelope{
		RoutingID: ActorID(route),
		Kind:      MsgKind(kind),
		Priority:  Priority(prio),
		Seqno:     seqno,
		flags:     envelopeFlags(flags),
		Payload:   r.Rest(),
	}
	if e.Priority > PriorityControl {
		return nil, &wire.DeserializeError{Field: "priority", Offset: 8, Err: errBadPriority}
	}
	if err := e.validateFlags(); err != nil {
		return nil, &wire.DeserializeError{Field: "flags", Offset: 9, Err: err}
	}
	return e, nil
}

func (e *Envelope) validateFlags() error {
	f := e.flags
	switch {
	case f&^flagMask != 0:
		return errBadFlags
	case f&flagCall != 0 && f&flagReply != 0:
		return errBadFlags
	case f&flagError != 0 && f&flagReply == 0:
		return errBadFlags
	case (f&flagReply != 0) != e.Kind.IsReply():
		return errBadFlags
	case f&(flagCall|flagReply) != 0 && e.Seqno <= 0:
		return errBadFlags
	}
	return nil
}

func newReply(call *Envelope, route ActorID, payload []byte) *Envelope {
	return &Envelope{
		RoutingID: route,
		Kind:      call.Kind.Reply(),
		Priority:  call.Priority,
		Seqno:     call.Seqno,
		Payload:   payload,
		flags:     flagReply,
	}
}

func newErrorReply(call *Envelope, route ActorID, outcome Outcome, cause error) *Envelope {
	f := &callFailure{Outcome: outcome}
	if cause != nil {
		f.Message = cause.Error()
	}
	payload, _ := wire.Encode(f)
	reply := newReply(call, route, payload)
	reply.flags |= flagError
	return reply
}

// callFailure 错误回复的负载
type callFailure struct {
	Outcome Outcome
	Message string
}

func (f *callFailure) MarshalIPC(w *wire.Writer) {
	w.WriteUint8(uint8(f.Outcome))
	w.WriteString(f.Message)
}

func (f *callFailure) UnmarshalIPC(r *wire.Reader) error {
	o, err := r.ReadUint8("outcome")
	if err != nil {
		return err
	}
	f.Outcome = Outcome(o)
	f.Message, err = r.ReadString("message")
	return err
}
