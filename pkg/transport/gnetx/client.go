package gnetx

import (
	"github.com/panjf2000/gnet/v2"
	pkgerrors "github.com/pkg/errors"
)

// Client 共享一个事件循环的拨号端
type Client struct {
	handler
	cli  *gnet.Client
	opts *options
}

func NewClient(opts ...Option) (*Client, error) {
	c := &Client{opts: loadOptions(opts...)}
	cli, err := gnet.NewClient(c, gnet.WithMulticore(c.opts.multicore))
	if err != nil {
		return nil, pkgerrors.Wrap(err, "gnetx: new client")
	}
	if err := cli.Start(); err != nil {
		return nil, pkgerrors.Wrap(err, "gnetx: start client")
	}
	c.cli = cli
	return c, nil
}

// Dial address 形如 127.0.0.1:9000
func (c *Client) Dial(network, address string) (*Conn, error) {
	conn := newConn(nil, c.opts.maxFrameSize)
	// 连接注册到事件循环之前就绑定上下文，第一批数据不会丢
	gc, err := c.cli.DialContext(network, address, conn)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "gnetx: dial %s", address)
	}
	conn.c = gc
	return conn, nil
}

func (c *Client) Stop() error {
	return c.cli.Stop()
}
