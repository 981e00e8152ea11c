// Package natsx 把一对 NATS subject 当作有序的双向帧通道
package natsx

import (
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	pkgerrors "github.com/pkg/errors"
)

// Config NATS 连接配置
type Config struct {
	Servers         []string `mapstructure:"servers" yaml:"servers"`
	Name            string   `mapstructure:"name" yaml:"name"`
	MaxReconnects   int      `mapstructure:"max_reconnects" yaml:"max_reconnects"` // -1 无限重连
	ReconnectWaitMs int      `mapstructure:"reconnect_wait_ms" yaml:"reconnect_wait_ms"`
	TimeoutMs       int      `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	Username        string   `mapstructure:"username" yaml:"username"`
	Password        string   `mapstructure:"password" yaml:"password"`
	Token           string   `mapstructure:"token" yaml:"token"`
	// 本端订阅和对端订阅的 subject
	Local string `mapstructure:"local" yaml:"local"`
	Peer  string `mapstructure:"peer" yaml:"peer"`
}

func DefaultConfig() *Config {
	return &Config{
		Servers:         []string{nats.DefaultURL},
		Name:            "gipc",
		MaxReconnects:   -1,
		ReconnectWaitMs: 2000,
		TimeoutMs:       5000,
		Local:           "gipc.a",
		Peer:            "gipc.b",
	}
}

func (c *Config) Validate() error {
	if len(c.Servers) == 0 {
		return errors.New("natsx: servers cannot be empty")
	}
	if c.Username != "" && c.Password == "" {
		return errors.New("natsx: password is required when username is set")
	}
	if c.Local == "" || c.Peer == "" || c.Local == c.Peer {
		return errors.New("natsx: local and peer subjects must be distinct and non-empty")
	}
	return nil
}

func (c *Config) options() []nats.Option {
	opts := []nats.Option{nats.MaxReconnects(c.MaxReconnects)}
	if c.Name != "" {
		opts = append(opts, nats.Name(c.Name))
	}
	if c.ReconnectWaitMs > 0 {
		opts = append(opts, nats.ReconnectWait(time.Duration(c.ReconnectWaitMs)*time.Millisecond))
	}
	if c.TimeoutMs > 0 {
		opts = append(opts, nats.Timeout(time.Duration(c.TimeoutMs)*time.Millisecond))
	}
	if c.Username != "" {
		opts = append(opts, nats.UserInfo(c.Username, c.Password))
	}
	if c.Token != "" {
		opts = append(opts, nats.Token(c.Token))
	}
	return opts
}

// Connect 建立 NATS 连接，返回的连接由调用方关闭
func Connect(cfg *Config) (*nats.Conn, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	nc, err := nats.Connect(strings.Join(cfg.Servers, ","), cfg.options()...)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "natsx: connect %v", cfg.Servers)
	}
	return nc, nil
}
