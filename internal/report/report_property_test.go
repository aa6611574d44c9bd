package report

import (
	"math"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPercentileProperty 验证 nearest-rank 的定义：
// 至少 rank 个样本 ≤ 结果，且严格小于结果的样本少于 rank 个。
func TestPercentileProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("nearest-rank definition", prop.ForAll(
		func(samples []float64, p float64) bool {
			if len(samples) == 0 {
				return Percentile(samples, p) == 0
			}
			sorted := append([]float64(nil), samples...)
			sort.Float64s(sorted)

			v := Percentile(sorted, p)
			rank := int(math.Ceil(p / 100 * float64(len(sorted))))
			if rank < 1 {
				rank = 1
			}

			var le, lt int
			for _, s := range sorted {
				if s <= v {
					le++
				}
				if s < v {
					lt++
				}
			}
			return le >= rank && lt < rank
		},
		gen.SliceOf(gen.Float64Range(0, 10000)),
		gen.Float64Range(0.1, 99.9),
	))

	properties.Property("percentiles are monotonic", prop.ForAll(
		func(samples []float64) bool {
			if len(samples) == 0 {
				return true
			}
			sorted := append([]float64(nil), samples...)
			sort.Float64s(sorted)
			p50 := Percentile(sorted, 50)
			p95 := Percentile(sorted, 95)
			p99 := Percentile(sorted, 99)
			return sorted[0] <= p50 && p50 <= p95 && p95 <= p99 && p99 <= sorted[len(sorted)-1]
		},
		gen.SliceOf(gen.Float64Range(0, 10000)),
	))

	properties.TestingRun(t)
}
