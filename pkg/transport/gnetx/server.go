package gnetx

import (
	"context"
	"errors"

	"github.com/panjf2000/gnet/v2"
	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/lib/workers"
)

var ErrNotStarted = errors.New("gnetx: server not started")

// Server 每个新连接交给 onAccept，在协程池里调用
type Server struct {
	handler
	protoAddr string
	onAccept  func(*Conn)
	opts      *options
	eng       gnet.Engine
	booted    chan struct{}
	exited    chan error
}

// NewServer protoAddr 形如 tcp://127.0.0.1:9000
func NewServer(protoAddr string, onAccept func(*Conn), opts ...Option) *Server {
	return &Server{
		protoAddr: protoAddr,
		onAccept:  onAccept,
		opts:      loadOptions(opts...),
		booted:    make(chan struct{}),
		exited:    make(chan error, 1),
	}
}

// Start 事件循环启动后返回
func (s *Server) Start() error {
	workers.Go(func() {
		err := gnet.Run(s, s.protoAddr, gnet.WithMulticore(s.opts.multicore))
		if err != nil {
			glog.Error("gnetx: server exit", zap.String("addr", s.protoAddr), zap.Error(err))
		}
		s.exited <- err
	}, nil)
	select {
	case <-s.booted:
		return nil
	case err := <-s.exited:
		return err
	}
}

func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.booted:
	default:
		return ErrNotStarted
	}
	return s.eng.Stop(ctx)
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.eng = eng
	close(s.booted)
	glog.Info("gnetx: server started", zap.String("addr", s.protoAddr))
	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	conn := newConn(c, s.opts.maxFrameSize)
	c.SetContext(conn)
	if s.onAccept != nil {
		workers.Submit(func() { s.onAccept(conn) }, nil)
	}
	return nil, gnet.None
}
