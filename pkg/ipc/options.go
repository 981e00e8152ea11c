package ipc

import (
	"time"

	"github.com/dzm2020/gipc/pkg/metrics"
)

type Option func(*Options)

type Options struct {
	// Name 日志里的通道名
	Name string
	// Root 绑定在 ControlID 上的根 actor
	Root IActor
	// SendBatch 普通优先级消息一次最多合并写出的条数
	SendBatch int
	// CallTimeout ctx 没有截止时间时的默认调用超时，0 表示不限
	CallTimeout time.Duration
	// MaxProtocolErrors 协议错误累计到该值时关闭通道，0 表示不关闭
	MaxProtocolErrors int
	// ErrorPolicy 返回 true 时关闭通道
	ErrorPolicy func(outcome Outcome, env *Envelope) bool
	// OutcomeHandler 每次派发结束后调用，在派发协程里执行
	OutcomeHandler func(outcome Outcome, env *Envelope)
	Metrics        metrics.ChannelMetrics
}

func loadOptions(options ...Option) *Options {
	opts := defaultOptions()
	for _, option := range options {
		option(opts)
	}
	if opts.SendBatch <= 0 {
		opts.SendBatch = 1
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NopChannelMetrics()
	}
	return opts
}

func defaultOptions() *Options {
	return &Options{
		SendBatch: 64,
		Metrics:   metrics.NopChannelMetrics(),
	}
}

func WithName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

func WithRoot(root IActor) Option {
	return func(o *Options) {
		o.Root = root
	}
}

func WithSendBatch(n int) Option {
	return func(o *Options) {
		o.SendBatch = n
	}
}

func WithCallTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.CallTimeout = d
	}
}

func WithMaxProtocolErrors(n int) Option {
	return func(o *Options) {
		o.MaxProtocolErrors = n
	}
}

func WithErrorPolicy(policy func(Outcome, *Envelope) bool) Option {
	return func(o *Options) {
		o.ErrorPolicy = policy
	}
}

func WithOutcomeHandler(handler func(Outcome, *Envelope)) Option {
	return func(o *Options) {
		o.OutcomeHandler = handler
	}
}

func WithMetrics(m metrics.ChannelMetrics) Option {
	return func(o *Options) {
		o.Metrics = m
	}
}
