package workers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubmit(t *testing.T) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	sum := 0
	for i := 1; i <= 100; i++ {
		wg.Add(1)
		i := i
		Submit(func() {
			defer wg.Done()
			mu.Lock()
			sum += i
			mu.Unlock()
		}, nil)
	}
	wg.Wait()
	require.Equal(t, 5050, sum)
}

func TestGoRecover(t *testing.T) {
	before := Panics()
	recovered := make(chan interface{}, 1)
	Go(func() { panic("boom") }, func(err interface{}) { recovered <- err })
	require.Equal(t, "boom", <-recovered)
	Wait()
	require.Equal(t, before+1, Panics())
}
