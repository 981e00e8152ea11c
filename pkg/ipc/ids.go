package ipc

import (
	"math"
	"strconv"
)

// ActorID 通道一侧内唯一的 actor 编号
type ActorID uint32

const (
	// NoneID 从不分配
	NoneID ActorID = 0
	// ControlID 指向通道本身以及根 actor
	ControlID ActorID = math.MaxUint32
)

func (id ActorID) String() string {
	switch id {
	case NoneID:
		return "none"
	case ControlID:
		return "control"
	}
	return strconv.FormatUint(uint64(id), 10)
}

// ActorHandle 本端和对端编号
type ActorHandle struct {
	Local ActorID
	Peer  ActorID
}

// FullyBound 两端都已分配
func (h ActorHandle) FullyBound() bool {
	return h.Local != NoneID && h.Peer != NoneID
}
