package ipc

import (
	"errors"
	"fmt"
)

// 通道相关错误
var (
	// ErrChannelClosed 通道已关闭或正在关闭
	ErrChannelClosed = errors.New("ipc: channel closed")
	// ErrCallTimeout 调用超时，调用被放弃，迟到的回复会被丢弃
	ErrCallTimeout = errors.New("ipc: call timeout")
	// ErrProtocolViolation 协议错误过多，通道被关闭
	ErrProtocolViolation = errors.New("ipc: too many protocol errors")
	// ErrPeerGoodbye 对端有序关闭
	ErrPeerGoodbye = errors.New("ipc: peer closed the channel")
	// ErrNilTransport 传输层为空
	ErrNilTransport = errors.New("ipc: transport is nil")
)

// actor 相关错误
var (
	// ErrActorNotOpen actor 未打开或已销毁
	ErrActorNotOpen = errors.New("ipc: actor is not open")
	// ErrActorBound actor 已经绑定过通道
	ErrActorBound = errors.New("ipc: actor already bound")
	// ErrNoRootActor 通道没有根 actor
	ErrNoRootActor = errors.New("ipc: channel has no root actor")
	// ErrConstructorFailed 子 actor 构造失败
	ErrConstructorFailed = errors.New("ipc: constructor failed")
	// ErrRegistryExhausted 编号耗尽
	ErrRegistryExhausted = errors.New("ipc: actor ids exhausted")
)

// 消息相关错误
var (
	// ErrUnknownKind 协议里没有这种消息
	ErrUnknownKind = errors.New("ipc: unknown message kind")
	// ErrReplyMismatch 回复类型与调用不一致
	ErrReplyMismatch = errors.New("ipc: reply kind does not match call")
)

func ErrNotCallKind(kind MsgKind) error {
	return fmt.Errorf("ipc: kind %s is not a call", kind)
}

func ErrNotSendKind(kind MsgKind) error {
	return fmt.Errorf("ipc: kind %s is not a send", kind)
}

func ErrKindNotInProtocol(kind MsgKind, p *Protocol) error {
	return fmt.Errorf("ipc: kind %s does not belong to protocol %s: %w", kind, p.Name, ErrUnknownKind)
}

func ErrNoSuchActor(id ActorID) error {
	return fmt.Errorf("ipc: no actor %s", id)
}

func ErrActorDestroying(id ActorID) error {
	return fmt.Errorf("ipc: actor %s is being destroyed", id)
}

func ErrSemanticsMismatch(kind MsgKind, want Semantics) error {
	return fmt.Errorf("ipc: kind %s expects %s semantics", kind, want)
}

func ErrHandlerPanic(r interface{}) error {
	return fmt.Errorf("ipc: handler panic: %v", r)
}

// CallError 对端派发失败时的调用结果
type CallError struct {
	Outcome Outcome
	Kind    MsgKind
	Message string
}

func (e *CallError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("ipc: call %s failed: %s", e.Kind, e.Outcome)
	}
	return fmt.Sprintf("ipc: call %s failed: %s: %s", e.Kind, e.Outcome, e.Message)
}

// OutcomeOf 从错误链上取出 CallError 的结果
func OutcomeOf(err error) (Outcome, bool) {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Outcome, true
	}
	return Processed, false
}
