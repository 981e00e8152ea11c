package metrics

type nopCounter struct{}

func (nopCounter) Inc()        {}
func (nopCounter) Add(float64) {}

type nopGauge struct{}

func (nopGauge) Set(float64) {}
func (nopGauge) Inc()        {}
func (nopGauge) Dec()        {}
func (nopGauge) Add(float64) {}

type nopTimer struct{}

func (nopTimer) ObserveDuration() {}

func NopCounter() Counter { return nopCounter{} }

func NopGauge() Gauge { return nopGauge{} }

func NopTimer() Timer { return nopTimer{} }

type nopChannelMetrics struct{}

func (nopChannelMetrics) EnvelopeSent(string)     {}
func (nopChannelMetrics) EnvelopeReceived(string) {}
func (nopChannelMetrics) DispatchOutcome(string)  {}
func (nopChannelMetrics) PendingCalls(int)        {}
func (nopChannelMetrics) CallDuration() Timer     { return nopTimer{} }
func (nopChannelMetrics) ActorsLive(int)          {}
func (nopChannelMetrics) ChannelClosed(string)    {}

// NopChannelMetrics 默认实现，什么都不做
func NopChannelMetrics() ChannelMetrics { return nopChannelMetrics{} }
