package natsx

import (
	"context"
	"errors"
	"io"

	"github.com/nats-io/nats.go"
	pkgerrors "github.com/pkg/errors"

	"github.com/dzm2020/gipc/pkg/lib/stopper"
	"github.com/dzm2020/gipc/pkg/transport"
)

// Conn 在 local 上收帧，向 peer 发帧
//
// 单个 NATS 连接上同一 subject 的消息保持发布顺序，这里只依赖这一点
type Conn struct {
	stopper.Stopper
	nc     *nats.Conn
	peer   string
	sub    *nats.Subscription
	ctx    context.Context
	cancel context.CancelFunc
}

func New(nc *nats.Conn, local, peer string) (*Conn, error) {
	sub, err := nc.SubscribeSync(local)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "natsx: subscribe %s", local)
	}
	// 慢消费者会被 NATS 丢消息，关掉限制
	if err := sub.SetPendingLimits(-1, -1); err != nil {
		_ = sub.Unsubscribe()
		return nil, pkgerrors.Wrap(err, "natsx: pending limits")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Conn{
		nc:     nc,
		peer:   peer,
		sub:    sub,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (c *Conn) Send(frames ...[]byte) error {
	if c.IsStop() {
		return transport.ErrClosed
	}
	for _, f := range frames {
		if err := c.nc.Publish(c.peer, f); err != nil {
			return pkgerrors.Wrapf(err, "natsx: publish %s", c.peer)
		}
	}
	return nil
}

func (c *Conn) Recv() ([]byte, error) {
	msg, err := c.sub.NextMsgWithContext(c.ctx)
	if err != nil {
		if c.IsStop() || errors.Is(err, context.Canceled) {
			return nil, transport.ErrClosed
		}
		if errors.Is(err, nats.ErrConnectionClosed) || errors.Is(err, nats.ErrBadSubscription) {
			return nil, io.EOF
		}
		return nil, pkgerrors.Wrap(err, "natsx: recv")
	}
	return msg.Data, nil
}

// Close 只退订，不关闭共享的 NATS 连接
func (c *Conn) Close() error {
	if !c.Stop() {
		return nil
	}
	c.cancel()
	return c.sub.Unsubscribe()
}
