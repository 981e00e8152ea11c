package ipc

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/duke-git/lancet/v2/maputil"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dzm2020/gipc/pkg/glog"
	"github.com/dzm2020/gipc/pkg/lib"
	"github.com/dzm2020/gipc/pkg/lib/stopper"
	"github.com/dzm2020/gipc/pkg/lib/workers"
	"github.com/dzm2020/gipc/pkg/metrics"
)

var channelSeq atomic.Uint64

// inbound 读协程交给派发协程的一项
type inbound struct {
	env *Envelope
	err error
	// terminal 传输层失败，派发协程处理到这里时关闭通道
	terminal bool
	task     *localTask
}

// localTask 本端发起、必须在派发协程上执行的工作，只执行一次
type localTask struct {
	fn   func()
	ran  atomic.Bool
	done chan struct{}
}

func (t *localTask) run() {
	if !t.ran.CompareAndSwap(false, true) {
		return
	}
	defer close(t.done)
	t.fn()
}

// Channel 一条传输之上的消息通道
// 读协程只负责收包解码，所有派发都在同一个派发协程（及其嵌套调用）里串行执行
type Channel struct {
	opts      *Options
	name      string
	transport Transport
	registry  *Registry
	root      IActor
	outbox    *outbox
	inbox     *lib.Mpsc[inbound]
	signal    chan struct{}
	pending   *maputil.ConcurrentMap[int64, *pendingCall]
	seqno     atomic.Int64
	protoErrs atomic.Int32
	metrics   metrics.ChannelMetrics

	// dispatching 正在执行的处理函数层数，含嵌套
	dispatching atomic.Int32
	warned      atomic.Bool

	ctx     context.Context
	cancel  context.CancelFunc
	stopper stopper.Stopper
	mu      sync.Mutex
	cause   error
	reason  TeardownReason
	done    chan struct{}
}

// Open 在传输上建立通道并启动读协程和派发协程
func Open(t Transport, options ...Option) (*Channel, error) {
	if t == nil {
		return nil, ErrNilTransport
	}
	opts := loadOptions(options...)
	c := &Channel{
		opts:      opts,
		name:      opts.Name,
		transport: t,
		registry:  NewRegistry(opts.Metrics),
		inbox:     lib.NewMpsc[inbound](),
		signal:    make(chan struct{}, 1),
		pending:   maputil.NewConcurrentMap[int64, *pendingCall](16),
		metrics:   opts.Metrics,
		done:      make(chan struct{}),
	}
	if c.name == "" {
		c.name = fmt.Sprintf("channel-%d", channelSeq.Add(1))
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.outbox = newOutbox(t, opts.SendBatch, c.onWriteError)
	if opts.Root != nil {
		if err := opts.Root.base().bindRoot(c); err != nil {
			c.cancel()
			return nil, err
		}
		c.root = opts.Root
	}

	workers.Go(c.readLoop, c.onPanic)
	workers.Go(c.serve, c.onPanic)
	glog.Info("ipc: channel opened", zap.String("channel", c.name), zap.Bool("root", c.root != nil))
	return c, nil
}

func (c *Channel) Name() string {
	return c.name
}

func (c *Channel) Registry() *Registry {
	return c.registry
}

// Root 可能为 nil
func (c *Channel) Root() IActor {
	return c.root
}

func (c *Channel) IsClosed() bool {
	return c.stopper.IsStop()
}

// Done 所有 actor 销毁完成后关闭
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Err 关闭原因，本端主动 Close 时为 nil
func (c *Channel) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cause
}

// Reason actor 的销毁原因，通道未关闭时无意义
func (c *Channel) Reason() TeardownReason {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reason
}

// Send 单向消息，入队即返回
func (c *Channel) Send(env *Envelope) error {
	if env.Kind.IsReply() {
		return ErrNotSendKind(env.Kind)
	}
	if c.stopper.IsStop() {
		return ErrChannelClosed
	}
	env.flags = 0
	env.Seqno = 0
	return c.post(env)
}

func (c *Channel) post(env *Envelope) error {
	if err := c.outbox.post(env.Marshal(), env.Priority); err != nil {
		return err
	}
	c.metrics.EnvelopeSent(env.Kind.String())
	if glog.Enabled(zap.DebugLevel) {
		glog.Debug("ipc: envelope queued", c.fields(env)...)
	}
	return nil
}

// Close 有序关闭，可重复调用
// 发送 Goodbye，关闭传输，结束等待中的调用；actor 由派发协程以 NormalShutdown 销毁。
// 本端 Close 和对端 Goodbye 都算正常关闭，只有传输失败或协议错误超限才是 AbnormalShutdown。
func (c *Channel) Close() error {
	return c.shutdown(nil, NormalShutdown, true)
}

func (c *Channel) shutdown(cause error, reason TeardownReason, goodbye bool) error {
	c.mu.Lock()
	if c.stopper.IsStop() {
		c.mu.Unlock()
		return nil
	}
	c.cause = cause
	c.reason = reason
	c.stopper.Stop()
	c.mu.Unlock()

	var errs error
	if goodbye {
		bye := NewEnvelope(ControlID, KindGoodbye, PriorityControl, nil)
		errs = multierr.Append(errs, errors.Wrap(c.outbox.closeWith(bye.Marshal()), "ipc: send goodbye"))
	} else {
		c.outbox.close()
	}
	c.cancel()
	errs = multierr.Append(errs, errors.Wrap(c.transport.Close(), "ipc: close transport"))

	callErr := ErrChannelClosed
	if cause != nil {
		callErr = fmt.Errorf("%w: %w", ErrChannelClosed, cause)
	}
	c.failPending(callErr)

	fields := []zap.Field{zap.String("channel", c.name), zap.Stringer("reason", reason)}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	if reason == AbnormalShutdown {
		glog.Error("ipc: channel failed", fields...)
	} else {
		glog.Info("ipc: channel closing", fields...)
	}
	return errs
}

func (c *Channel) pushInbound(in inbound) {
	c.inbox.Push(in)
	select {
	case c.signal <- struct{}{}:
	default:
	}
}

// runOnServe 把 fn 交给派发协程执行并等待完成
// 调用方不能是派发协程本身；派发协程已退出时就地执行
func (c *Channel) runOnServe(fn func()) {
	t := &localTask{fn: fn, done: make(chan struct{})}
	c.pushInbound(inbound{task: t})
	select {
	case <-t.done:
		return
	case <-c.done:
	}
	t.run()
	<-t.done
}

func (c *Channel) readLoop() {
	for {
		frame, err := c.transport.Recv()
		if err != nil {
			if !c.stopper.IsStop() {
				c.pushInbound(inbound{err: errors.Wrap(err, "ipc: transport recv"), terminal: true})
			}
			return
		}
		env, err := UnmarshalEnvelope(frame)
		c.pushInbound(inbound{env: env, err: err})
	}
}

// onWriteError 写失败排在已收到的消息之后处理，对端的 Goodbye 优先生效
func (c *Channel) onWriteError(err error) {
	c.pushInbound(inbound{err: errors.Wrap(err, "ipc: transport send"), terminal: true})
}

func (c *Channel) onPanic(r interface{}) {
	glog.Error("ipc: channel goroutine panic", zap.String("channel", c.name), zap.Any("recover", r), zap.Stack("stack"))
	_ = c.shutdown(ErrHandlerPanic(r), AbnormalShutdown, false)
}

// serve 派发协程
func (c *Channel) serve() {
	defer c.finish()
	for !c.stopper.IsStop() {
		if in, ok := c.inbox.Pop(); ok {
			c.handleInbound(in)
			continue
		}
		select {
		case <-c.signal:
		case <-c.stopper.Done():
			return
		}
	}
}

func (c *Channel) finish() {
	// 已排队的本端销毁先于整体销毁执行
	for {
		in, ok := c.inbox.Pop()
		if !ok {
			break
		}
		if in.task != nil {
			in.task.run()
		}
	}
	reason := c.Reason()
	c.teardownAll(reason)
	c.metrics.ChannelClosed(reason.String())
	glog.Info("ipc: channel closed", zap.String("channel", c.name), zap.Stringer("reason", reason))
	close(c.done)
}

func (c *Channel) fields(env *Envelope, extra ...zap.Field) []zap.Field {
	fields := make([]zap.Field, 0, 5+len(extra))
	fields = append(fields, zap.String("channel", c.name))
	if env != nil {
		fields = append(fields,
			zap.Stringer("route", env.RoutingID),
			zap.Stringer("kind", env.Kind),
			zap.Int64("seqno", env.Seqno),
		)
	}
	return append(fields, extra...)
}
