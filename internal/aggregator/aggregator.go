package aggregator

import (
	"sync"

	"yqhp/gateway-bench/pkg/types"
)

// defaultSampleCapacity 是样本切片的初始容量。
const defaultSampleCapacity = 1024

// Aggregator 收集并聚合交易结果，可被任意数量的 worker 并发调用。
type Aggregator struct {
	mu             sync.Mutex
	successCount   int64
	failureCount   int64
	latencySamples []float64
}

// Snapshot 是聚合状态的只读副本。
type Snapshot struct {
	SuccessCount int64
	FailureCount int64
	// LatencySamples 按完成顺序排列的成功请求延迟（毫秒）。
	LatencySamples []float64
}

// Total 返回已完成的尝试次数。
func (s Snapshot) Total() int64 {
	return s.SuccessCount + s.FailureCount
}

// New 创建一个新的聚合器。
func New() *Aggregator {
	return &Aggregator{
		latencySamples: make([]float64, 0, defaultSampleCapacity),
	}
}

// Record 记录一次交易结果。
// 成功时计数加一并追加延迟样本，失败时只增加失败计数。
func (a *Aggregator) Record(outcome types.RequestOutcome) {
	latencyMs, ok := outcome.LatencyMs()

	a.mu.Lock()
	defer a.mu.Unlock()

	if outcome.IsSuccess() && ok {
		a.successCount++
		a.latencySamples = append(a.latencySamples, latencyMs)
		return
	}
	a.failureCount++
}

// Completed 返回已完成的尝试次数，用于进度输出。
func (a *Aggregator) Completed() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.successCount + a.failureCount
}

// Snapshot 返回当前状态的深拷贝。
// 报告只应在调度器进入 Stopped 状态后读取快照。
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	samples := make([]float64, len(a.latencySamples))
	copy(samples, a.latencySamples)

	return Snapshot{
		SuccessCount:   a.successCount,
		FailureCount:   a.failureCount,
		LatencySamples: samples,
	}
}
