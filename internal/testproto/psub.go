package testproto

import (
	"context"

	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/wire"
)

var (
	KindAdd    = ipc.MakeKind(PSubID, 1)
	KindPoke   = ipc.MakeKind(PSubID, 2)
	KindDelete = ipc.MakeKind(PSubID, 3)
	// KindChildConstructor PSub 管理下一级 PSub
	KindChildConstructor = ipc.MakeKind(PSubID, 4)
)

var PSub = ipc.NewProtocol(PSubID, "PSub",
	ipc.MessageSpec{Kind: KindAdd, Name: "Add", Sem: ipc.SemCall},
	ipc.MessageSpec{Kind: KindPoke, Name: "Poke", Sem: ipc.SemSend},
	ipc.MessageSpec{Kind: KindDelete, Name: "__delete__", Sem: ipc.SemCall, Dtor: true},
	ipc.MessageSpec{Kind: KindChildConstructor, Name: "PSubConstructor", Sem: ipc.SemCall, Ctor: true},
)

type PSubHandler interface {
	AnswerAdd(ctx context.Context, self *PSubActor, req *AddRequest) (*AddReply, error)
	RecvPoke(ctx context.Context, self *PSubActor, msg *Note) bool
	// RecvDelete 返回 false 也不影响销毁
	RecvDelete(ctx context.Context, self *PSubActor) bool
	AllocPSub(ctx context.Context, self *PSubActor, args *SubArgs) (*PSubActor, error)
	ActorDestroy(self *PSubActor, reason ipc.TeardownReason)
}

type PSubActor struct {
	ipc.Actor
	h PSubHandler
}

func NewPSubActor(h PSubHandler) *PSubActor {
	a := &PSubActor{h: h}
	a.Init(a, PSub)
	return a
}

func (a *PSubActor) CallAdd(ctx context.Context, req *AddRequest) (*AddReply, error) {
	rep := new(AddReply)
	if err := a.CallMessage(ctx, KindAdd, req, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (a *PSubActor) SendPoke(msg *Note) error {
	return a.SendMessage(KindPoke, msg)
}

// CallPSubConstructor 构造下一级 PSub，语义同 PTestActor.CallPSubConstructor
func (a *PSubActor) CallPSubConstructor(ctx context.Context, child *PSubActor, args *SubArgs) error {
	return a.Construct(ctx, child, KindChildConstructor, args)
}

// CallDelete 两端都销毁，下级收到 AncestorDeletion，本端的 ActorDestroy 在返回前完成
func (a *PSubActor) CallDelete(ctx context.Context) error {
	return a.Delete(ctx, KindDelete, &DeleteMessage{}, wire.Empty{})
}

func (a *PSubActor) HandleMessage(ctx context.Context, env *ipc.Envelope) ([]byte, ipc.Outcome, error) {
	msg, err := DecodePSub(env.Kind, env.Payload)
	if err != nil {
		return nil, ipc.PayloadError, err
	}
	switch m := msg.(type) {
	case *AddRequest:
		rep, err := a.h.AnswerAdd(ctx, a, m)
		if err == nil && rep == nil {
			err = errNilReply
		}
		return answer(rep, err)
	case *Note:
		return receive(a.h.RecvPoke(ctx, a, m))
	case *DeleteMessage:
		return receive(a.h.RecvDelete(ctx, a))
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
	return nil, ipc.NotKnown, ipc.ErrKindNotInProtocol(env.Kind, PSub)
}

func (a *PSubActor) ActorDestroy(reason ipc.TeardownReason) {
	a.h.ActorDestroy(a, reason)
}
