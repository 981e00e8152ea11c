package ipc

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// MessageSpec 协议里一种消息的描述
type MessageSpec struct {
	Kind     MsgKind
	Name     string
	Sem      Semantics
	Priority Priority
	// Ctor 子 actor 构造消息
	Ctor bool
	// Dtor 析构消息，处理后接收方 actor 被销毁
	Dtor bool
}

// Protocol 协议描述，生成代码里是包级变量
type Protocol struct {
	ID       ProtocolID
	Name     string
	Messages map[MsgKind]MessageSpec
}

// NewProtocol 消息类型必须属于该协议且不能重复，否则 panic
func NewProtocol(id ProtocolID, name string, specs ...MessageSpec) *Protocol {
	if id == controlProtocol {
		panic("ipc: protocol id 0 is reserved")
	}
	p := &Protocol{
		ID:       id,
		Name:     name,
		Messages: make(map[MsgKind]MessageSpec, len(specs)),
	}
	for _, spec := range specs {
		if spec.Kind.Protocol() != id || spec.Kind.IsReply() {
			panic(fmt.Sprintf("ipc: kind %s cannot belong to protocol %s", spec.Kind, name))
		}
		if _, ok := p.Messages[spec.Kind]; ok {
			panic(fmt.Sprintf("ipc: duplicate kind %s in protocol %s", spec.Kind, name))
		}
		if (spec.Ctor || spec.Dtor) && spec.Ctor == spec.Dtor {
			panic(fmt.Sprintf("ipc: kind %s is both constructor and destructor", spec.Kind))
		}
		if spec.Ctor && spec.Sem != SemCall {
			panic(fmt.Sprintf("ipc: constructor %s must be a call", spec.Kind))
		}
		p.Messages[spec.Kind] = spec
	}
	return p
}

// Owns 类型编号是否落在本协议范围内
func (p *Protocol) Owns(kind MsgKind) bool {
	return kind.Protocol() == p.ID
}

// Spec 回复类型按其调用类型查找
func (p *Protocol) Spec(kind MsgKind) (MessageSpec, bool) {
	if !p.Owns(kind) {
		return MessageSpec{}, false
	}
	spec, ok := p.Messages[kind.Request()]
	return spec, ok
}

// Kinds 升序
func (p *Protocol) Kinds() []MsgKind {
	kinds := make([]MsgKind, 0, len(p.Messages))
	for k := range p.Messages {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

func (p *Protocol) String() string {
	return fmt.Sprintf("%s(%d)", p.Name, p.ID)
}
