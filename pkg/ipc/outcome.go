package ipc

import "fmt"

// Outcome 一次派发的结果
type Outcome uint8

const (
	// Processed 处理成功
	Processed Outcome = iota
	// NotKnown 消息类型不在任何已知协议内
	NotKnown
	// RouteError 目标 actor 不存在或正在销毁
	RouteError
	// PayloadError 负载无法解码
	PayloadError
	// ValueError 处理函数返回失败
	ValueError
)

func (o Outcome) String() string {
	switch o {
	case Processed:
		return "Processed"
	case NotKnown:
		return "NotKnown"
	case RouteError:
		return "RouteError"
	case PayloadError:
		return "PayloadError"
	case ValueError:
		return "ValueError"
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

// IsProtocolError 协议层错误，计入关闭策略
func (o Outcome) IsProtocolError() bool {
	return o == NotKnown || o == RouteError || o == PayloadError
}

// TeardownReason actor 销毁原因
type TeardownReason uint8

const (
	// NormalShutdown 通道有序关闭
	NormalShutdown TeardownReason = iota
	// AbnormalShutdown 传输层失败或协议错误导致关闭
	AbnormalShutdown
	// Deletion 析构消息
	Deletion
	// FailedConstructor 构造握手失败
	FailedConstructor
	// AncestorDeletion 上级 actor 被析构
	AncestorDeletion
)

func (r TeardownReason) String() string {
	switch r {
	case NormalShutdown:
		return "NormalShutdown"
	case AbnormalShutdown:
		return "AbnormalShutdown"
	case Deletion:
		return "Deletion"
	case FailedConstructor:
		return "FailedConstructor"
	case AncestorDeletion:
		return "AncestorDeletion"
	}
	return fmt.Sprintf("TeardownReason(%d)", uint8(r))
}

// ActorState actor 生命周期状态
type ActorState int32

const (
	StateNew ActorState = iota
	StateConstructing
	StateOpen
	StateDestroying
	StateDestroyed
)

func (s ActorState) String() string {
	switch s {
	case StateNew:
		return "New"
	case StateConstructing:
		return "Constructing"
	case StateOpen:
		return "Open"
	case StateDestroying:
		return "Destroying"
	case StateDestroyed:
		return "Destroyed"
	}
	return fmt.Sprintf("ActorState(%d)", int32(s))
}
