package main

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dzm2020/gipc/internal/testproto"
	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/ipc"
)

// echoHandler 服务端和客户端共用的根 actor 实现
type echoHandler struct {
	name string
}

func (h *echoHandler) AnswerEcho(_ context.Context, _ *testproto.PTestActor, req *testproto.EchoRequest) (*testproto.EchoReply, error) {
	return &testproto.EchoReply{Text: strings.ToUpper(req.Text)}, nil
}

func (h *echoHandler) AnswerRelay(ctx context.Context, self *testproto.PTestActor, req *testproto.RelayRequest) (*testproto.RelayReply, error) {
	if req.Hops == 0 {
		return &testproto.RelayReply{Trace: append(req.Trace, h.name)}, nil
	}
	return self.CallRelay(ctx, &testproto.RelayRequest{Hops: req.Hops - 1, Trace: append(req.Trace, h.name)})
}

func (h *echoHandler) RecvNotify(_ context.Context, self *testproto.PTestActor, msg *testproto.Note) bool {
	glog.Info("notify", zap.String("channel", self.Channel().Name()), zap.Uint32("seq", msg.Seq), zap.String("text", msg.Text))
	return true
}

func (h *echoHandler) RecvAlert(_ context.Context, self *testproto.PTestActor, msg *testproto.Alert) bool {
	glog.Warn("alert", zap.String("channel", self.Channel().Name()), zap.Uint8("level", msg.Level), zap.String("text", msg.Text))
	return true
}

func (h *echoHandler) AllocPSub(_ context.Context, _ *testproto.PTestActor, args *testproto.SubArgs) (*testproto.PSubActor, error) {
	if args.Name == "" {
		return nil, fmt.Errorf("sub actor needs a name")
	}
	return testproto.NewPSubActor(&adder{name: args.Name}), nil
}

func (h *echoHandler) ActorDestroy(self *testproto.PTestActor, reason ipc.TeardownReason) {
	glog.Info("root destroyed", zap.String("channel", self.Channel().Name()), zap.Stringer("reason", reason))
}

type adder struct {
	name string
}

func (a *adder) AnswerAdd(_ context.Context, _ *testproto.PSubActor, req *testproto.AddRequest) (*testproto.AddReply, error) {
	return &testproto.AddReply{Sum: req.A + req.B}, nil
}

func (a *adder) RecvPoke(_ context.Context, _ *testproto.PSubActor, msg *testproto.Note) bool {
	glog.Debug("poke", zap.String("sub", a.name), zap.Uint32("seq", msg.Seq))
	return true
}

func (a *adder) RecvDelete(context.Context, *testproto.PSubActor) bool {
	return true
}

// AllocPSub 子 actor 下面再挂一级加法器
func (a *adder) AllocPSub(_ context.Context, _ *testproto.PSubActor, args *testproto.SubArgs) (*testproto.PSubActor, error) {
	return testproto.NewPSubActor(&adder{name: a.name + "/" + args.Name}), nil
}

func (a *adder) ActorDestroy(self *testproto.PSubActor, reason ipc.TeardownReason) {
	glog.Info("sub destroyed", zap.String("sub", a.name), zap.Stringer("id", self.ID()), zap.Stringer("reason", reason))
}
