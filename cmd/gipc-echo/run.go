package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dzm2020/gipc/internal/config"
	"github.com/dzm2020/gipc/internal/testproto"
	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/metrics"
	"github.com/dzm2020/gipc/pkg/transport"
	"github.com/dzm2020/gipc/pkg/transport/gnetx"
	"github.com/dzm2020/gipc/pkg/transport/natsx"
)

func transportOptions(cfg *config.Config) []transport.Option {
	return []transport.Option{
		transport.WithMaxFrameSize(cfg.Transport.MaxFrameSize),
		transport.WithWriteTimeout(cfg.Transport.WriteTimeout),
	}
}

// accept 每个新连接一个通道，根 actor 各自独立
func accept(cfg *config.Config, m metrics.ChannelMetrics, t ipc.Transport, name string) {
	root := testproto.NewPTestActor(&echoHandler{name: name})
	c, err := ipc.Open(t, channelOptions(cfg, m, root, name)...)
	if err != nil {
		glog.Error("open channel", zap.String("channel", name), zap.Error(err))
		_ = t.Close()
		return
	}
	go func() {
		<-c.Done()
		glog.Info("channel done", zap.String("channel", name), zap.Stringer("reason", c.Reason()), zap.Error(c.Err()))
	}()
}

func serve(ctx context.Context, cfg *config.Config, m metrics.ChannelMetrics) error {
	switch cfg.Transport.Kind {
	case config.TransportTCP:
		ln, err := transport.Listen(cfg.Transport.Network, cfg.Transport.Address, transportOptions(cfg)...)
		if err != nil {
			return err
		}
		glog.Info("serving", zap.String("transport", cfg.Transport.Kind), zap.Stringer("addr", ln.Addr()))
		go func() {
			<-ctx.Done()
			_ = ln.Close()
		}()
		for i := 1; ; i++ {
			conn, err := ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			accept(cfg, m, conn, fmt.Sprintf("%s-%d", cfg.Channel.Name, i))
		}
	case config.TransportGnet:
		srv := gnetx.NewServer("tcp://"+cfg.Transport.Address, func(conn *gnetx.Conn) {
			accept(cfg, m, conn, fmt.Sprintf("%s-%s", cfg.Channel.Name, conn.RemoteAddr()))
		}, gnetx.WithMaxFrameSize(cfg.Transport.MaxFrameSize))
		if err := srv.Start(); err != nil {
			return err
		}
		<-ctx.Done()
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Stop(stopCtx)
	case config.TransportNats:
		nc, err := natsx.Connect(&cfg.Transport.Nats)
		if err != nil {
			return err
		}
		defer nc.Close()
		conn, err := natsx.New(nc, cfg.Transport.Nats.Local, cfg.Transport.Nats.Peer)
		if err != nil {
			return err
		}
		accept(cfg, m, conn, cfg.Channel.Name)
		<-ctx.Done()
		return conn.Close()
	}
	return fmt.Errorf("unknown transport kind %q", cfg.Transport.Kind)
}

func dialTransport(ctx context.Context, cfg *config.Config) (ipc.Transport, func(), error) {
	switch cfg.Transport.Kind {
	case config.TransportTCP:
		conn, err := transport.Dial(ctx, cfg.Transport.Network, cfg.Transport.Address, transportOptions(cfg)...)
		return conn, func() {}, err
	case config.TransportGnet:
		cli, err := gnetx.NewClient(gnetx.WithMaxFrameSize(cfg.Transport.MaxFrameSize))
		if err != nil {
			return nil, nil, err
		}
		conn, err := cli.Dial("tcp", cfg.Transport.Address)
		if err != nil {
			_ = cli.Stop()
			return nil, nil, err
		}
		return conn, func() { _ = cli.Stop() }, nil
	case config.TransportNats:
		nc, err := natsx.Connect(&cfg.Transport.Nats)
		if err != nil {
			return nil, nil, err
		}
		// 与服务端方向相反
		conn, err := natsx.New(nc, cfg.Transport.Nats.Peer, cfg.Transport.Nats.Local)
		if err != nil {
			nc.Close()
			return nil, nil, err
		}
		return conn, nc.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown transport kind %q", cfg.Transport.Kind)
}

func dial(ctx context.Context, cfg *config.Config, m metrics.ChannelMetrics, n int) error {
	t, release, err := dialTransport(ctx, cfg)
	if err != nil {
		return err
	}
	defer release()

	root := testproto.NewPTestActor(&echoHandler{name: "client"})
	c, err := ipc.Open(t, channelOptions(cfg, m, root, cfg.Channel.Name+"-client")...)
	if err != nil {
		_ = t.Close()
		return err
	}
	defer func() {
		_ = c.Close()
		<-c.Done()
	}()

	start := time.Now()
	for i := 0; i < n; i++ {
		rep, err := root.CallEcho(ctx, &testproto.EchoRequest{Text: fmt.Sprintf("hello-%d", i)})
		if err != nil {
			return err
		}
		glog.Debug("echo", zap.String("reply", rep.Text))
		if err := root.SendNotify(&testproto.Note{Seq: uint32(i), Text: "tick"}); err != nil {
			return err
		}
	}
	glog.Info("echo done", zap.Int("calls", n), zap.Duration("elapsed", time.Since(start)))

	relay, err := root.CallRelay(ctx, &testproto.RelayRequest{Hops: 4})
	if err != nil {
		return err
	}
	glog.Info("relay", zap.Strings("trace", relay.Trace))

	sub := testproto.NewPSubActor(&adder{name: "client-sub"})
	if err := root.CallPSubConstructor(ctx, sub, &testproto.SubArgs{Name: "adder"}); err != nil {
		return err
	}
	sum, err := sub.CallAdd(ctx, &testproto.AddRequest{A: 20, B: 22})
	if err != nil {
		return err
	}
	glog.Info("add", zap.Int64("sum", sum.Sum), zap.Stringer("local", sub.ID()), zap.Stringer("peer", sub.PeerID()))

	// 删除 sub 时 leaf 随之销毁
	leaf := testproto.NewPSubActor(&adder{name: "client-sub/leaf"})
	if err := sub.CallPSubConstructor(ctx, leaf, &testproto.SubArgs{Name: "leaf"}); err != nil {
		return err
	}
	return sub.CallDelete(ctx)
}
