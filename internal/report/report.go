package report

import (
	"math"
	"sort"
	"time"

	"yqhp/gateway-bench/internal/aggregator"
)

const (
	// MinSamplesP95 is the minimum sample count for which P95 is reported.
	MinSamplesP95 = 20
	// MinSamplesP99 is the minimum sample count for which P99 is reported.
	MinSamplesP99 = 100
)

// Summary is the final result of a run. Latency fields are in milliseconds.
type Summary struct {
	Total      int64         `json:"total_requests"`
	Successful int64         `json:"successful"`
	Failed     int64         `json:"failed"`
	Duration   time.Duration `json:"-"`
	Seconds    float64       `json:"duration_seconds"`
	Throughput float64       `json:"throughput_rps"`
	ErrorRate  float64       `json:"error_rate"`

	Avg *float64 `json:"avg_latency_ms,omitempty"`
	Min *float64 `json:"min_latency_ms,omitempty"`
	Max *float64 `json:"max_latency_ms,omitempty"`
	P50 *float64 `json:"p50_latency_ms,omitempty"`
	P95 *float64 `json:"p95_latency_ms,omitempty"`
	P99 *float64 `json:"p99_latency_ms,omitempty"`

	StdDev       *float64 `json:"stddev_latency_ms,omitempty"`
	Distribution []Bucket `json:"distribution,omitempty"`
}

// HasLatency reports whether at least one latency sample was recorded.
func (s *Summary) HasLatency() bool {
	return s.P50 != nil
}

// Generate builds the summary from a snapshot and the measured wall-clock time.
func Generate(snapshot aggregator.Snapshot, elapsed time.Duration) *Summary {
	s := &Summary{
		Total:      snapshot.Total(),
		Successful: snapshot.SuccessCount,
		Failed:     snapshot.FailureCount,
		Duration:   elapsed,
		Seconds:    elapsed.Seconds(),
	}
	if elapsed > 0 {
		s.Throughput = float64(s.Total) / elapsed.Seconds()
	}
	if s.Total > 0 {
		s.ErrorRate = float64(s.Failed) / float64(s.Total)
	}

	n := len(snapshot.LatencySamples)
	if n == 0 {
		return s
	}

	sorted := make([]float64, n)
	copy(sorted, snapshot.LatencySamples)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Avg = ptr(sum / float64(n))
	s.Min = ptr(sorted[0])
	s.Max = ptr(sorted[n-1])
	s.P50 = ptr(Percentile(sorted, 50))
	if n >= MinSamplesP95 {
		s.P95 = ptr(Percentile(sorted, 95))
	}
	if n >= MinSamplesP99 {
		s.P99 = ptr(Percentile(sorted, 99))
	}

	if h, err := newHistogram(sorted); err == nil {
		s.StdDev = ptr(h.stdDevMs())
		s.Distribution = h.buckets()
	}
	return s
}

// Percentile returns the nearest-rank percentile of an ascending slice.
// p is clamped to [0, 100]; an empty slice yields 0.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[n-1]
	}
	rank := int(math.Ceil(p / 100 * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}

func ptr(v float64) *float64 {
	return &v
}
