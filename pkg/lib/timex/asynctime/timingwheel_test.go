package asynctime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAfterFunc(t *testing.T) {
	fired := make(chan struct{})
	AfterFunc(5*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer not fired")
	}
}

func TestStop(t *testing.T) {
	fired := make(chan struct{}, 1)
	timer := AfterFunc(200*time.Millisecond, func() { fired <- struct{}{} })
	require.True(t, timer.Stop())
	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	case <-time.After(300 * time.Millisecond):
	}
}
