// Package prom 用 Prometheus 实现 metrics 接口
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dzm2020/gipc/pkg/metrics"
)

type timer struct {
	h     prometheus.Observer
	start time.Time
}

func newTimer(h prometheus.Observer) metrics.Timer {
	return &timer{h: h, start: time.Now()}
}

func (t *timer) ObserveDuration() {
	t.h.Observe(time.Since(t.start).Seconds())
}

// 延迟直方图的桶，单位秒
var defaultBuckets = []float64{
	.0001, .0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10,
}

type channelMetrics struct {
	sent         *prometheus.CounterVec
	received     *prometheus.CounterVec
	outcomes     *prometheus.CounterVec
	pending      prometheus.Gauge
	callDuration prometheus.Histogram
	actors       prometheus.Gauge
	closed       *prometheus.CounterVec
}

// NewChannelMetrics 注册 gipc_* 指标
func NewChannelMetrics(reg prometheus.Registerer) metrics.ChannelMetrics {
	m := &channelMetrics{
		sent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gipc_envelopes_sent_total",
			Help: "Envelopes handed to the transport",
		}, []string{"kind"}),
		received: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gipc_envelopes_received_total",
			Help: "Envelopes taken off the transport",
		}, []string{"kind"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gipc_dispatch_outcomes_total",
			Help: "Dispatch results by outcome",
		}, []string{"outcome"}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gipc_pending_calls",
			Help: "Calls waiting for a reply",
		}),
		callDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gipc_call_duration_seconds",
			Help:    "Round trip time of blocking calls",
			Buckets: defaultBuckets,
		}),
		actors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gipc_actors_live",
			Help: "Registered actors",
		}),
		closed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gipc_channels_closed_total",
			Help: "Closed channels by teardown reason",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.sent,
		m.received,
		m.outcomes,
		m.pending,
		m.callDuration,
		m.actors,
		m.closed,
	)
	return m
}

func (m *channelMetrics) EnvelopeSent(kind string) {
	m.sent.WithLabelValues(kind).Inc()
}

func (m *channelMetrics) EnvelopeReceived(kind string) {
	m.received.WithLabelValues(kind).Inc()
}

func (m *channelMetrics) DispatchOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *channelMetrics) PendingCalls(delta int) {
	m.pending.Add(float64(delta))
}

func (m *channelMetrics) CallDuration() metrics.Timer {
	return newTimer(m.callDuration)
}

func (m *channelMetrics) ActorsLive(delta int) {
	m.actors.Add(float64(delta))
}

func (m *channelMetrics) ChannelClosed(reason string) {
	m.closed.WithLabelValues(reason).Inc()
}

var _ metrics.ChannelMetrics = (*channelMetrics)(nil)
