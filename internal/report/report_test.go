package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/gateway-bench/internal/aggregator"
)

func tens(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64((i + 1) * 10)
	}
	return out
}

func TestGenerate_NearestRank(t *testing.T) {
	snap := aggregator.Snapshot{SuccessCount: 100, LatencySamples: tens(100)}
	s := Generate(snap, 10*time.Second)

	require.NotNil(t, s.P50)
	require.NotNil(t, s.P95)
	require.NotNil(t, s.P99)
	assert.Equal(t, 500.0, *s.P50)
	assert.Equal(t, 950.0, *s.P95)
	assert.Equal(t, 990.0, *s.P99)
	assert.Equal(t, 10.0, *s.Min)
	assert.Equal(t, 1000.0, *s.Max)
	assert.InDelta(t, 505.0, *s.Avg, 1e-9)
	assert.InDelta(t, 10.0, s.Throughput, 1e-9)
}

func TestGenerate_UnsortedInputIsNotMutated(t *testing.T) {
	samples := []float64{30, 10, 20}
	s := Generate(aggregator.Snapshot{SuccessCount: 3, LatencySamples: samples}, time.Second)

	assert.Equal(t, 20.0, *s.P50)
	assert.Equal(t, []float64{30, 10, 20}, samples)
}

func TestGenerate_PercentileGuards(t *testing.T) {
	tests := []struct {
		n       int
		wantP95 bool
		wantP99 bool
	}{
		{1, false, false},
		{19, false, false},
		{20, true, false},
		{99, true, false},
		{100, true, true},
	}
	for _, tt := range tests {
		s := Generate(aggregator.Snapshot{SuccessCount: int64(tt.n), LatencySamples: tens(tt.n)}, time.Second)
		assert.NotNil(t, s.P50, "n=%d", tt.n)
		assert.Equal(t, tt.wantP95, s.P95 != nil, "n=%d", tt.n)
		assert.Equal(t, tt.wantP99, s.P99 != nil, "n=%d", tt.n)
	}
}

func TestGenerate_NoSamples(t *testing.T) {
	s := Generate(aggregator.Snapshot{FailureCount: 5}, 2*time.Second)

	assert.Equal(t, int64(5), s.Total)
	assert.Equal(t, 1.0, s.ErrorRate)
	assert.InDelta(t, 2.5, s.Throughput, 1e-9)
	assert.False(t, s.HasLatency())
	assert.Nil(t, s.Avg)
	assert.Nil(t, s.StdDev)
	assert.Empty(t, s.Distribution)
}

func TestGenerate_ZeroElapsed(t *testing.T) {
	s := Generate(aggregator.Snapshot{SuccessCount: 1, LatencySamples: []float64{5}}, 0)
	assert.Equal(t, 0.0, s.Throughput)

	s = Generate(aggregator.Snapshot{}, 0)
	assert.Equal(t, 0.0, s.ErrorRate)
	assert.Equal(t, int64(0), s.Total)
}

func TestGenerate_Distribution(t *testing.T) {
	s := Generate(aggregator.Snapshot{SuccessCount: 100, LatencySamples: tens(100)}, time.Second)

	require.NotNil(t, s.StdDev)
	assert.InDelta(t, 288.6, *s.StdDev, 3)

	var total int64
	for _, b := range s.Distribution {
		assert.Greater(t, b.Count, int64(0))
		assert.LessOrEqual(t, b.FromMs, b.ToMs)
		total += b.Count
	}
	assert.Equal(t, int64(100), total)
}

func TestPercentile_Edges(t *testing.T) {
	assert.Equal(t, 0.0, Percentile(nil, 50))
	assert.Equal(t, 7.0, Percentile([]float64{7}, 99))
	assert.Equal(t, 1.0, Percentile([]float64{1, 2, 3}, 0))
	assert.Equal(t, 3.0, Percentile([]float64{1, 2, 3}, 100))
	assert.Equal(t, 2.0, Percentile([]float64{1, 2, 3, 4}, 50))
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	s := Generate(aggregator.Snapshot{SuccessCount: 20, FailureCount: 1, LatencySamples: tens(20)}, 3*time.Second)
	require.NoError(t, WriteText(&buf, s))

	out := buf.String()
	assert.Contains(t, out, "Total Requests:    21")
	assert.Contains(t, out, "Successful:        20")
	assert.Contains(t, out, "Failed:            1")
	assert.Contains(t, out, "Duration:          3.00 seconds")
	assert.Contains(t, out, "Throughput (RPS):  7.00")
	assert.Contains(t, out, "P50 Latency:       100.00 ms")
	assert.Contains(t, out, "P95 Latency:       190.00 ms")
	assert.NotContains(t, out, "P99")
}

func TestWriteText_NoLatencyLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, Generate(aggregator.Snapshot{FailureCount: 2}, time.Second)))
	assert.False(t, strings.Contains(buf.String(), "Latency"))
}

func TestWriteJSON_OmitsIneligiblePercentiles(t *testing.T) {
	var buf bytes.Buffer
	s := Generate(aggregator.Snapshot{SuccessCount: 3, LatencySamples: []float64{1, 2, 3}}, time.Second)
	require.NoError(t, WriteJSON(&buf, s))

	var decoded map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(3), decoded["total_requests"])
	assert.Contains(t, decoded, "p50_latency_ms")
	assert.NotContains(t, decoded, "p95_latency_ms")
	assert.NotContains(t, decoded, "p99_latency_ms")
}

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, WriteJSONFile(path, Generate(aggregator.Snapshot{SuccessCount: 1, LatencySamples: []float64{4}}, time.Second)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"p50_latency_ms": 4`)
}

func TestWritePrometheusTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bench.prom")
	s := Generate(aggregator.Snapshot{SuccessCount: 20, FailureCount: 5, LatencySamples: tens(20)}, time.Second)
	require.NoError(t, WritePrometheusTextfile(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "gateway_bench_requests_total 25")
	assert.Contains(t, out, "gateway_bench_requests_failed 5")
	assert.Contains(t, out, `gateway_bench_latency_milliseconds{stat="p95"} 190`)
	assert.NotContains(t, out, `stat="p99"`)
}
