package types

import "time"

// OutcomeStatus 表示单次交易请求的分类结果。
type OutcomeStatus string

const (
	// OutcomeSuccess 请求成功完成。
	OutcomeSuccess OutcomeStatus = "success"
	// OutcomeFailure 请求失败（非成功状态码、网络错误、超时或解析错误）。
	OutcomeFailure OutcomeStatus = "failure"
)

// RequestOutcome 是一次交易尝试的结果。
// 只有成功结果携带延迟，失败结果永远不会伪造延迟。
type RequestOutcome struct {
	Status  OutcomeStatus
	latency time.Duration
}

// Success 创建一个带延迟的成功结果，负延迟按 0 处理。
func Success(latency time.Duration) RequestOutcome {
	if latency < 0 {
		latency = 0
	}
	return RequestOutcome{Status: OutcomeSuccess, latency: latency}
}

// Failure 创建一个不带延迟的失败结果。
func Failure() RequestOutcome {
	return RequestOutcome{Status: OutcomeFailure}
}

// IsSuccess 检查结果是否成功。
func (o RequestOutcome) IsSuccess() bool {
	return o.Status == OutcomeSuccess
}

// HasLatency 报告结果是否携带延迟样本。
func (o RequestOutcome) HasLatency() bool {
	return o.Status == OutcomeSuccess
}

// Latency 返回延迟，失败结果返回 (0, false)。
func (o RequestOutcome) Latency() (time.Duration, bool) {
	if !o.HasLatency() {
		return 0, false
	}
	return o.latency, true
}

// LatencyMs 返回以毫秒为单位的延迟。
func (o RequestOutcome) LatencyMs() (float64, bool) {
	d, ok := o.Latency()
	if !ok {
		return 0, false
	}
	return float64(d) / float64(time.Millisecond), true
}
