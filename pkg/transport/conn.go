package transport

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/lib"
	"github.com/dzm2020/gipc/pkg/lib/stopper"
	"github.com/dzm2020/gipc/pkg/lib/workers"
)

// Conn net.Conn 上的长度前缀帧传输
type Conn struct {
	stopper.Stopper
	conn  net.Conn
	opts  *Options
	inbox *Inbox
	wmu   sync.Mutex
}

// NewConn 接管 c 并启动读协程
func NewConn(c net.Conn, options ...Option) *Conn {
	conn := &Conn{
		conn:  c,
		opts:  loadOptions(options...),
		inbox: NewInbox(),
	}
	tuneConn(c, conn.opts.KeepAlive)
	workers.Go(conn.readLoop, func(r interface{}) {
		glog.Error("transport: read loop panic", zap.Any("recover", r), zap.Stack("stack"))
		conn.inbox.Fail(ErrClosed)
	})
	return conn
}

// Dial 建立连接
func Dial(ctx context.Context, network, address string, options ...Option) (*Conn, error) {
	var d net.Dialer
	c, err := d.DialContext(ctx, network, address)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "transport: dial %s", address)
	}
	return NewConn(c, options...), nil
}

func (c *Conn) readLoop() {
	var err error
	defer func() {
		c.inbox.Fail(err)
	}()

	buf := lib.NewBuffer(c.opts.ReadBufSize)
	tmp := make([]byte, c.opts.ReadBufSize)
	for {
		n, rerr := c.conn.Read(tmp)
		if n > 0 {
			_, _ = buf.Write(tmp[:n])
			frames, derr := DecodeFrames(buf, c.opts.MaxFrameSize)
			c.inbox.Push(frames...)
			if derr != nil {
				err = derr
				_ = c.conn.Close()
				return
			}
		}
		if rerr != nil {
			err = rerr
			if c.IsStop() || errors.Is(rerr, net.ErrClosed) {
				err = ErrClosed
			}
			return
		}
	}
}

// Send 一次写出全部帧
func (c *Conn) Send(frames ...[]byte) error {
	if c.IsStop() {
		return ErrClosed
	}
	bufs := make(net.Buffers, 0, 2*len(frames))
	for _, f := range frames {
		if len(f) > c.opts.MaxFrameSize {
			return errFrameSize(len(f), c.opts.MaxFrameSize)
		}
		bufs = append(bufs, FrameHeader(len(f)), f)
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.opts.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.opts.WriteTimeout))
	}
	if _, err := bufs.WriteTo(c.conn); err != nil {
		return pkgerrors.Wrap(err, "transport: write")
	}
	return nil
}

func (c *Conn) Recv() ([]byte, error) {
	return c.inbox.Recv()
}

func (c *Conn) Close() error {
	if !c.Stop() {
		return nil
	}
	return c.conn.Close()
}

func (c *Conn) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Listener 接受 Conn
type Listener struct {
	ln      net.Listener
	options []Option
}

func Listen(network, address string, options ...Option) (*Listener, error) {
	lc := listenConfig(loadOptions(options...).ReuseAddr)
	ln, err := lc.Listen(context.Background(), network, address)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "transport: listen %s", address)
	}
	return &Listener{ln: ln, options: options}, nil
}

func (l *Listener) Accept() (*Conn, error) {
	c, err := l.ln.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, ErrClosed
		}
		return nil, err
	}
	return NewConn(c, l.options...), nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *Listener) Close() error {
	return l.ln.Close()
}
