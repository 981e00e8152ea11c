package testproto

import (
	"context"
	"errors"

	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/wire"
)

const (
	PTestID ipc.ProtocolID = 1
	PSubID  ipc.ProtocolID = 2
)

var (
	KindEcho            = ipc.MakeKind(PTestID, 1)
	KindRelay           = ipc.MakeKind(PTestID, 2)
	KindNotify          = ipc.MakeKind(PTestID, 3)
	KindAlert           = ipc.MakeKind(PTestID, 4)
	KindPSubConstructor = ipc.MakeKind(PTestID, 5)
)

var PTest = ipc.NewProtocol(PTestID, "PTest",
	ipc.MessageSpec{Kind: KindEcho, Name: "Echo", Sem: ipc.SemCall},
	ipc.MessageSpec{Kind: KindRelay, Name: "Relay", Sem: ipc.SemCall},
	ipc.MessageSpec{Kind: KindNotify, Name: "Notify", Sem: ipc.SemSend},
	ipc.MessageSpec{Kind: KindAlert, Name: "Alert", Sem: ipc.SemSend, Priority: ipc.PriorityHigh},
	ipc.MessageSpec{Kind: KindPSubConstructor, Name: "PSubConstructor", Sem: ipc.SemCall, Ctor: true},
)

var errNilReply = errors.New("testproto: handler returned no reply")

// PTestHandler PTest 一端的业务实现
// Recv 返回 false 或 Answer 返回错误都按处理失败回报。
// 处理函数里调用任何 CallX 都要传入收到的 ctx，否则派发协程会等待自己。
type PTestHandler interface {
	AnswerEcho(ctx context.Context, self *PTestActor, req *EchoRequest) (*EchoReply, error)
	AnswerRelay(ctx context.Context, self *PTestActor, req *RelayRequest) (*RelayReply, error)
	RecvNotify(ctx context.Context, self *PTestActor, msg *Note) bool
	RecvAlert(ctx context.Context, self *PTestActor, msg *Alert) bool
	// AllocPSub 对端请求构造子 actor
	AllocPSub(ctx context.Context, self *PTestActor, args *SubArgs) (*PSubActor, error)
	ActorDestroy(self *PTestActor, reason ipc.TeardownReason)
}

type PTestActor struct {
	ipc.Actor
	h PTestHandler
}

func NewPTestActor(h PTestHandler) *PTestActor {
	a := &PTestActor{h: h}
	a.Init(a, PTest)
	return a
}

// CallEcho 在处理函数里调用时 ctx 必须是处理函数的 ctx
func (a *PTestActor) CallEcho(ctx context.Context, req *EchoRequest) (*EchoReply, error) {
	rep := new(EchoReply)
	if err := a.CallMessage(ctx, KindEcho, req, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (a *PTestActor) CallRelay(ctx context.Context, req *RelayRequest) (*RelayReply, error) {
	rep := new(RelayReply)
	if err := a.CallMessage(ctx, KindRelay, req, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (a *PTestActor) SendNotify(msg *Note) error {
	return a.SendMessage(KindNotify, msg)
}

func (a *PTestActor) SendAlert(msg *Alert) error {
	return a.SendMessage(KindAlert, msg)
}

// CallPSubConstructor 成功后 child 处于 Open，失败时 child 已被销毁
func (a *PTestActor) CallPSubConstructor(ctx context.Context, child *PSubActor, args *SubArgs) error {
	return a.Construct(ctx, child, KindPSubConstructor, args)
}

func (a *PTestActor) HandleMessage(ctx context.Context, env *ipc.Envelope) ([]byte, ipc.Outcome, error) {
	msg, err := DecodePTest(env.Kind, env.Payload)
	if err != nil {
		return nil, ipc.PayloadError, err
	}
	switch m := msg.(type) {
	case *EchoRequest:
		rep, err := a.h.AnswerEcho(ctx, a, m)
		if err == nil && rep == nil {
			err = errNilReply
		}
		return answer(rep, err)
	case *RelayRequest:
		rep, err := a.h.AnswerRelay(ctx, a, m)
		if err == nil && rep == nil {
			err = errNilReply
		}
		return answer(rep, err)
	case *Note:
		return receive(a.h.RecvNotify(ctx, a, m))
	case *Alert:
		return receive(a.h.RecvAlert(ctx, a, m))
	case *PSubConstructor:
		child, err := a.h.AllocPSub(ctx, a, &m.Args)
		if err == nil && child == nil {
			err = errNilReply
		}
		if err != nil {
			return nil, ipc.ValueError, err
		}
		reply, err := a.AcceptConstructor(child, m.Peer)
		if err != nil {
			return nil, ipc.ValueError, err
		}
		return reply, ipc.Processed, nil
	}
	return nil, ipc.NotKnown, ipc.ErrKindNotInProtocol(env.Kind, PTest)
}

func (a *PTestActor) ActorDestroy(reason ipc.TeardownReason) {
	a.h.ActorDestroy(a, reason)
}

func answer(rep wire.Param, err error) ([]byte, ipc.Outcome, error) {
	if err != nil {
		return nil, ipc.ValueError, err
	}
	payload, err := wire.Encode(rep)
	if err != nil {
		return nil, ipc.ValueError, err
	}
	return payload, ipc.Processed, nil
}

var errRejected = errors.New("testproto: message rejected by handler")

func receive(ok bool) ([]byte, ipc.Outcome, error) {
	if !ok {
		return nil, ipc.ValueError, errRejected
	}
	return nil, ipc.Processed, nil
}
