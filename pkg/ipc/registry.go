package ipc

import (
	"sync/atomic"

	"github.com/duke-git/lancet/v2/maputil"
	"golang.org/x/exp/slices"

	"github.com/dzm2020/gipc/pkg/metrics"
)

// Registry 通道一侧的 actor 表，编号单调递增，通道生命周期内不复用
type Registry struct {
	actors  *maputil.ConcurrentMap[ActorID, IActor]
	lastID  atomic.Uint32
	live    atomic.Int64
	metrics metrics.ChannelMetrics
}

func NewRegistry(m metrics.ChannelMetrics) *Registry {
	if m == nil {
		m = metrics.NopChannelMetrics()
	}
	return &Registry{
		actors:  maputil.NewConcurrentMap[ActorID, IActor](16),
		metrics: m,
	}
}

// Register 分配编号并写回 actor
func (r *Registry) Register(a IActor) (ActorID, error) {
	var id ActorID
	for {
		cur := r.lastID.Load()
		if cur >= uint32(ControlID)-1 {
			return NoneID, ErrRegistryExhausted
		}
		if r.lastID.CompareAndSwap(cur, cur+1) {
			id = ActorID(cur + 1)
			break
		}
	}
	a.base().id = id
	r.actors.Set(id, a)
	r.live.Add(1)
	r.metrics.ActorsLive(1)
	return id, nil
}

func (r *Registry) Lookup(id ActorID) (IActor, bool) {
	return r.actors.Get(id)
}

// Unregister actor 进入 Destroyed 之后调用
func (r *Registry) Unregister(id ActorID) {
	if _, ok := r.actors.GetAndDelete(id); ok {
		r.live.Add(-1)
		r.metrics.ActorsLive(-1)
	}
}

func (r *Registry) Len() int {
	return int(r.live.Load())
}

// IDs 升序
func (r *Registry) IDs() []ActorID {
	ids := make([]ActorID, 0, r.Len())
	r.actors.Range(func(id ActorID, _ IActor) bool {
		ids = append(ids, id)
		return true
	})
	slices.Sort(ids)
	return ids
}
