package transport

import "time"

const (
	defaultReadBufSize  = 4096
	defaultKeepAlive    = 30 * time.Second
	DefaultMaxFrameSize = 16 << 20
)

type Option func(*Options)

type Options struct {
	// ReadBufSize 每次 Read 的缓冲大小
	ReadBufSize int
	// MaxFrameSize 单帧上限，收发两端都检查
	MaxFrameSize int
	// WriteTimeout 单次写超时，0 表示不限
	WriteTimeout time.Duration
	// KeepAlive TCP 保活间隔，0 表示不开启
	KeepAlive time.Duration
	// ReuseAddr 监听时设置 SO_REUSEADDR
	ReuseAddr bool
}

func loadOptions(options ...Option) *Options {
	opts := &Options{
		ReadBufSize:  defaultReadBufSize,
		MaxFrameSize: DefaultMaxFrameSize,
		KeepAlive:    defaultKeepAlive,
		ReuseAddr:    true,
	}
	for _, option := range options {
		option(opts)
	}
	if opts.ReadBufSize <= 0 {
		opts.ReadBufSize = defaultReadBufSize
	}
	if opts.MaxFrameSize <= 0 {
		opts.MaxFrameSize = DefaultMaxFrameSize
	}
	return opts
}

func WithReadBufSize(n int) Option {
	return func(o *Options) {
		o.ReadBufSize = n
	}
}

func WithMaxFrameSize(n int) Option {
	return func(o *Options) {
		o.MaxFrameSize = n
	}
}

func WithWriteTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.WriteTimeout = d
	}
}

func WithKeepAlive(d time.Duration) Option {
	return func(o *Options) {
		o.KeepAlive = d
	}
}

func WithReuseAddr(b bool) Option {
	return func(o *Options) {
		o.ReuseAddr = b
	}
}
