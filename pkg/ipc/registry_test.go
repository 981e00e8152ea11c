package ipc

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type nopActor struct {
	Actor
}

func newNopActor() *nopActor {
	a := &nopActor{}
	a.Init(a, nil)
	return a
}

func (a *nopActor) HandleMessage(context.Context, *Envelope) ([]byte, Outcome, error) {
	return nil, Processed, nil
}

func (a *nopActor) ActorDestroy(TeardownReason) {}

func TestRegistryUniqueIDs(t *testing.T) {
	r := NewRegistry(nil)
	var wg sync.WaitGroup
	ids := make(chan ActorID, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a := newNopActor()
			id, err := r.Register(a)
			require.NoError(t, err)
			require.Equal(t, id, a.ID())
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[ActorID]bool)
	for id := range ids {
		require.NotEqual(t, NoneID, id)
		require.NotEqual(t, ControlID, id)
		require.False(t, seen[id])
		seen[id] = true
	}
	require.Equal(t, 100, r.Len())
	require.Len(t, r.IDs(), 100)

	r.Unregister(1)
	r.Unregister(1)
	require.Equal(t, 99, r.Len())
	_, ok := r.Lookup(1)
	require.False(t, ok)

	// 编号不复用
	id, err := r.Register(newNopActor())
	require.NoError(t, err)
	require.Equal(t, ActorID(101), id)
}

func TestRegistryExhausted(t *testing.T) {
	r := NewRegistry(nil)
	r.lastID.Store(uint32(ControlID) - 2)
	id, err := r.Register(newNopActor())
	require.NoError(t, err)
	require.Equal(t, ControlID-1, id)

	_, err = r.Register(newNopActor())
	require.ErrorIs(t, err, ErrRegistryExhausted)
	_, err = r.Register(newNopActor())
	require.ErrorIs(t, err, ErrRegistryExhausted)
}
