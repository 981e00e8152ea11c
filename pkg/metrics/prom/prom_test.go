package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestChannelMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewChannelMetrics(reg).(*channelMetrics)

	m.EnvelopeSent("1:1")
	m.EnvelopeSent("1:1")
	m.EnvelopeReceived("1:2")
	m.DispatchOutcome("NotKnown")
	m.PendingCalls(2)
	m.PendingCalls(-1)
	m.ActorsLive(3)
	m.ChannelClosed("NormalShutdown")
	m.CallDuration().ObserveDuration()

	require.Equal(t, 2.0, testutil.ToFloat64(m.sent.WithLabelValues("1:1")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.received.WithLabelValues("1:2")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.outcomes.WithLabelValues("NotKnown")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.pending))
	require.Equal(t, 3.0, testutil.ToFloat64(m.actors))
	require.Equal(t, 1, testutil.CollectAndCount(m.callDuration))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
}

func TestDoubleRegisterPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewChannelMetrics(reg)
	require.Panics(t, func() { NewChannelMetrics(reg) })
}
