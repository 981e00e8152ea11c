// Package config 进程配置，yaml 文件经 viper 加载
package config

import (
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/ipc"
	"github.com/dzm2020/gipc/pkg/transport"
	"github.com/dzm2020/gipc/pkg/transport/natsx"
)

// 传输类型
const (
	TransportTCP  = "tcp"
	TransportGnet = "gnet"
	TransportNats = "nats"
)

type Config struct {
	Glog      glog.Config     `mapstructure:"glog" yaml:"glog"`
	Channel   ChannelConfig   `mapstructure:"channel" yaml:"channel"`
	Transport TransportConfig `mapstructure:"transport" yaml:"transport"`
	Metrics   MetricsConfig   `mapstructure:"metrics" yaml:"metrics"`
}

type ChannelConfig struct {
	Name              string        `mapstructure:"name" yaml:"name"`
	SendBatch         int           `mapstructure:"sendBatch" yaml:"sendBatch"`
	MaxProtocolErrors int           `mapstructure:"maxProtocolErrors" yaml:"maxProtocolErrors"` // 0 不关闭
	CallTimeout       time.Duration `mapstructure:"callTimeout" yaml:"callTimeout"`             // 0 不限
}

type TransportConfig struct {
	Kind         string        `mapstructure:"kind" yaml:"kind"`
	Network      string        `mapstructure:"network" yaml:"network"`
	Address      string        `mapstructure:"address" yaml:"address"`
	MaxFrameSize int           `mapstructure:"maxFrameSize" yaml:"maxFrameSize"`
	WriteTimeout time.Duration `mapstructure:"writeTimeout" yaml:"writeTimeout"`
	Nats         natsx.Config  `mapstructure:"nats" yaml:"nats"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Address string `mapstructure:"address" yaml:"address"`
}

// Default 生成默认配置
func Default() *Config {
	return &Config{
		Glog: *glog.DefaultConfig(),
		Channel: ChannelConfig{
			Name:      "gipc",
			SendBatch: 64,
		},
		Transport: TransportConfig{
			Kind:         TransportTCP,
			Network:      "tcp",
			Address:      "127.0.0.1:9700",
			MaxFrameSize: transport.DefaultMaxFrameSize,
			Nats:         *natsx.DefaultConfig(),
		},
		Metrics: MetricsConfig{
			Address: "127.0.0.1:9701",
		},
	}
}

// Load 文件里没有的字段保留默认值，GIPC_ 前缀的环境变量覆盖文件
func Load(path string) (*Config, error) {
	vp := viper.New()
	vp.SetConfigFile(path)
	vp.SetConfigType("yaml")
	vp.SetEnvPrefix("GIPC")
	vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vp.AutomaticEnv()

	if err := vp.ReadInConfig(); err != nil {
		return nil, pkgerrors.Wrapf(err, "config: read %s", path)
	}
	cfg := Default()
	if err := vp.Unmarshal(cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "config: unmarshal %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Transport.Kind {
	case TransportTCP, TransportGnet:
		if c.Transport.Address == "" {
			return fmt.Errorf("config: transport.address is required for %s", c.Transport.Kind)
		}
	case TransportNats:
		if err := c.Transport.Nats.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("config: unknown transport kind %q", c.Transport.Kind)
	}
	if c.Channel.SendBatch < 0 || c.Channel.MaxProtocolErrors < 0 || c.Channel.CallTimeout < 0 {
		return fmt.Errorf("config: channel values cannot be negative")
	}
	if c.Metrics.Enabled && c.Metrics.Address == "" {
		return fmt.Errorf("config: metrics.address is required when metrics are enabled")
	}
	return nil
}

// Marshal 导出为 yaml，可直接作为配置文件
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// ChannelOptions 通道相关的选项，根 actor 和指标由调用方追加
func (c *Config) ChannelOptions() []ipc.Option {
	opts := []ipc.Option{
		ipc.WithName(c.Channel.Name),
		ipc.WithMaxProtocolErrors(c.Channel.MaxProtocolErrors),
		ipc.WithCallTimeout(c.Channel.CallTimeout),
	}
	if c.Channel.SendBatch > 0 {
		opts = append(opts, ipc.WithSendBatch(c.Channel.SendBatch))
	}
	return opts
}
