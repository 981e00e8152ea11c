// Package metrics 指标接口，具体实现见 prom 子包
package metrics

// Counter 单调递增计数
type Counter interface {
	Inc()
	Add(delta float64)
}

// Gauge 可增可减的值
type Gauge interface {
	Set(value float64)
	Inc()
	Dec()
	Add(delta float64)
}

// Histogram 采样分布
type Histogram interface {
	Observe(value float64)
}

// Timer 创建时开始计时，ObserveDuration 记录耗时
type Timer interface {
	ObserveDuration()
}

// ChannelMetrics 通道运行时指标，所有方法并发安全
type ChannelMetrics interface {
	// 信封收发，kind 为 "协议:序号" 形式
	EnvelopeSent(kind string)
	EnvelopeReceived(kind string)
	// 每次派发的结果
	DispatchOutcome(outcome string)
	// 等待回复的调用数，delta 可为负
	PendingCalls(delta int)
	// 同步调用耗时
	CallDuration() Timer
	// 存活的 actor 数，delta 可为负
	ActorsLive(delta int)
	// 通道关闭原因
	ChannelClosed(reason string)
}
