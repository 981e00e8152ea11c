package ipc

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/duke-git/lancet/v2/maputil"
	"golang.org/x/exp/slices"

	"github.com/dzm2020/gipc/pkg/wire"
)

// IActor 生成代码里的 actor 类型嵌入 Actor 后即满足该接口
type IActor interface {
	base() *Actor
	// HandleMessage 解码并派发到具体的处理函数，Call 返回回复负载
	HandleMessage(ctx context.Context, env *Envelope) (reply []byte, outcome Outcome, err error)
	// ActorDestroy 销毁回调，每个 actor 最多一次
	ActorDestroy(reason TeardownReason)
}

// Actor 协议一端的 actor 基类
type Actor struct {
	self      IActor
	proto     *Protocol
	channel   *Channel
	id        ActorID
	peerID    ActorID
	managerID ActorID
	state     atomic.Int32
	managees  *maputil.ConcurrentMap[ActorID, IActor]
}

func (a *Actor) base() *Actor {
	return a
}

// Init 生成代码的构造函数里调用，self 是外层 actor
func (a *Actor) Init(self IActor, proto *Protocol) {
	a.self = self
	a.proto = proto
	a.managees = maputil.NewConcurrentMap[ActorID, IActor](4)
}

func (a *Actor) ID() ActorID {
	return a.id
}

func (a *Actor) PeerID() ActorID {
	return a.peerID
}

func (a *Actor) Handle() ActorHandle {
	return ActorHandle{Local: a.id, Peer: a.peerID}
}

func (a *Actor) Protocol() *Protocol {
	return a.proto
}

func (a *Actor) Channel() *Channel {
	return a.channel
}

func (a *Actor) State() ActorState {
	return ActorState(a.state.Load())
}

func (a *Actor) IsOpen() bool {
	return a.State() == StateOpen
}

// Manager 根 actor 和未绑定的 actor 返回 nil
func (a *Actor) Manager() IActor {
	switch a.managerID {
	case NoneID:
		return nil
	case ControlID:
		if a.channel == nil || a.channel.root == nil {
			return nil
		}
		return a.channel.root
	}
	if a.channel == nil {
		return nil
	}
	m, _ := a.channel.registry.Lookup(a.managerID)
	return m
}

// Managees 按编号升序
func (a *Actor) Managees() []IActor {
	ids := make([]ActorID, 0)
	children := make(map[ActorID]IActor)
	a.managees.Range(func(id ActorID, child IActor) bool {
		ids = append(ids, id)
		children[id] = child
		return true
	})
	slices.Sort(ids)
	out := make([]IActor, 0, len(ids))
	for _, id := range ids {
		out = append(out, children[id])
	}
	return out
}

func (a *Actor) bindRoot(c *Channel) error {
	if a.self == nil {
		return fmt.Errorf("ipc: root actor is not initialized")
	}
	if !a.state.CompareAndSwap(int32(StateNew), int32(StateOpen)) {
		return ErrActorBound
	}
	a.channel = c
	a.id = ControlID
	a.peerID = ControlID
	return nil
}

func (a *Actor) outgoing(kind MsgKind, sem Semantics) (MessageSpec, error) {
	if a.proto == nil {
		return MessageSpec{}, fmt.Errorf("ipc: actor is not initialized")
	}
	spec, ok := a.proto.Spec(kind)
	if !ok || kind.IsReply() {
		return spec, ErrKindNotInProtocol(kind, a.proto)
	}
	if spec.Sem != sem {
		if sem == SemCall {
			return spec, ErrNotCallKind(kind)
		}
		return spec, ErrNotSendKind(kind)
	}
	return spec, nil
}

// SendMessage 生成的 SendX 调用
func (a *Actor) SendMessage(kind MsgKind, msg wire.Param) error {
	spec, err := a.outgoing(kind, SemSend)
	if err != nil {
		return err
	}
	if spec.Dtor {
		return fmt.Errorf("ipc: kind %s is a destructor, use Delete", kind)
	}
	if !a.IsOpen() {
		return ErrActorNotOpen
	}
	payload, err := wire.Encode(msg)
	if err != nil {
		return err
	}
	return a.channel.Send(NewEnvelope(a.peerID, kind, spec.Priority, payload))
}

// CallMessage 生成的 CallX 调用，reply 为 nil 时要求回复为空
func (a *Actor) CallMessage(ctx context.Context, kind MsgKind, msg wire.Param, reply wire.Param) error {
	spec, err := a.outgoing(kind, SemCall)
	if err != nil {
		return err
	}
	if spec.Ctor || spec.Dtor {
		return fmt.Errorf("ipc: kind %s is a lifecycle message", kind)
	}
	if !a.IsOpen() {
		return ErrActorNotOpen
	}
	payload, err := wire.Encode(msg)
	if err != nil {
		return err
	}
	env, err := a.channel.Call(ctx, NewEnvelope(a.peerID, kind, spec.Priority, payload))
	if err != nil {
		return err
	}
	return decodeReply(kind, env, reply)
}

func decodeReply(kind MsgKind, env *Envelope, reply wire.Param) error {
	if err := wire.Decode(env.Payload, reply); err != nil {
		return &CallError{Outcome: PayloadError, Kind: kind, Message: err.Error()}
	}
	return nil
}

// Construct 生成的 CallXConstructor 调用
// 失败时 child 收到 ActorDestroy(FailedConstructor)，不会对外可见
func (a *Actor) Construct(ctx context.Context, child IActor, kind MsgKind, args wire.Param) error {
	spec, err := a.outgoing(kind, SemCall)
	if err != nil {
		return err
	}
	if !spec.Ctor {
		return fmt.Errorf("ipc: kind %s is not a constructor", kind)
	}
	if !a.IsOpen() {
		return ErrActorNotOpen
	}
	cb := child.base()
	if cb.self == nil {
		return fmt.Errorf("ipc: child actor is not initialized")
	}
	if !cb.state.CompareAndSwap(int32(StateNew), int32(StateConstructing)) {
		return ErrActorBound
	}
	c := a.channel
	cb.channel = c
	cb.managerID = a.id
	id, err := c.registry.Register(child)
	if err != nil {
		c.failConstructor(ctx, child)
		return fmt.Errorf("%w: %w", ErrConstructorFailed, err)
	}
	a.managees.Set(id, child)

	w := wire.NewWriter()
	w.WriteUint32(uint32(id))
	if args != nil {
		args.MarshalIPC(w)
	}
	if err := w.Err(); err != nil {
		c.failConstructor(ctx, child)
		return fmt.Errorf("%w: %w", ErrConstructorFailed, err)
	}
	env, err := c.Call(ctx, NewEnvelope(a.peerID, kind, spec.Priority, w.Bytes()))
	if err != nil {
		c.failConstructor(ctx, child)
		return fmt.Errorf("%w: %w", ErrConstructorFailed, err)
	}
	peer, err := decodeActorID(env.Payload)
	if err != nil {
		c.failConstructor(ctx, child)
		return fmt.Errorf("%w: %w", ErrConstructorFailed, err)
	}
	cb.peerID = peer
	// 等待期间可能已被上级或通道关闭销毁
	if !cb.state.CompareAndSwap(int32(StateConstructing), int32(StateOpen)) {
		return ErrActorNotOpen
	}
	return nil
}

// AcceptConstructor 接收方在 AllocX 产出 child 后调用，返回构造回复的负载
func (a *Actor) AcceptConstructor(child IActor, peer ActorID) ([]byte, error) {
	if peer == NoneID || peer == ControlID {
		return nil, fmt.Errorf("ipc: invalid peer id %s", peer)
	}
	if !a.IsOpen() {
		return nil, ErrActorNotOpen
	}
	cb := child.base()
	if cb.self == nil {
		return nil, fmt.Errorf("ipc: child actor is not initialized")
	}
	if !cb.state.CompareAndSwap(int32(StateNew), int32(StateConstructing)) {
		return nil, ErrActorBound
	}
	c := a.channel
	cb.channel = c
	cb.managerID = a.id
	cb.peerID = peer
	id, err := c.registry.Register(child)
	if err != nil {
		// 处理函数里，已经在派发协程上
		if cb.beginDestroy() {
			c.teardown(child, FailedConstructor)
		}
		return nil, err
	}
	a.managees.Set(id, child)
	cb.state.Store(int32(StateOpen))

	w := wire.NewWriterSize(4)
	w.WriteUint32(uint32(id))
	return w.Bytes(), nil
}

// DecodeConstructor 构造消息负载：发起方的编号 + 参数
func DecodeConstructor(payload []byte, args wire.Param) (ActorID, error) {
	r := wire.NewReader(payload)
	id, err := readActorID(r)
	if err != nil {
		return NoneID, err
	}
	if args != nil {
		if err := args.UnmarshalIPC(r); err != nil {
			return NoneID, err
		}
	}
	return id, r.Done()
}

func decodeActorID(payload []byte) (ActorID, error) {
	r := wire.NewReader(payload)
	id, err := readActorID(r)
	if err != nil {
		return NoneID, err
	}
	return id, r.Done()
}

func readActorID(r *wire.Reader) (ActorID, error) {
	v, err := r.ReadUint32("actor id")
	if err != nil {
		return NoneID, err
	}
	id := ActorID(v)
	if id == NoneID || id == ControlID {
		return NoneID, &wire.DeserializeError{Field: "actor id", Offset: r.Offset() - 4, Err: fmt.Errorf("reserved id %s", id)}
	}
	return id, nil
}

// Delete 生成的析构桩调用
// 先发析构消息再销毁本端，无论对端结果如何本端都会销毁。
// 本端的销毁在派发协程上执行，返回时 ActorDestroy 已经完成
func (a *Actor) Delete(ctx context.Context, kind MsgKind, msg wire.Param, reply wire.Param) error {
	if a.proto == nil {
		return fmt.Errorf("ipc: actor is not initialized")
	}
	spec, ok := a.proto.Spec(kind)
	if !ok || !spec.Dtor {
		return fmt.Errorf("ipc: kind %s is not a destructor", kind)
	}
	if a.State() != StateOpen || !a.beginDestroy() {
		return ErrActorNotOpen
	}
	c := a.channel
	defer c.destroyLocal(ctx, a.self, Deletion)

	payload, err := wire.Encode(msg)
	if err != nil {
		return err
	}
	env := NewEnvelope(a.peerID, kind, spec.Priority, payload)
	if spec.Sem == SemSend {
		return c.Send(env)
	}
	r, err := c.Call(ctx, env)
	if err != nil {
		// 对端同时在析构，两边结果一致
		if o, ok := OutcomeOf(err); ok && o == RouteError {
			return nil
		}
		if errors.Is(err, ErrChannelClosed) {
			return nil
		}
		return err
	}
	return decodeReply(kind, r, reply)
}
