package aggregator

import (
	"sync"
	"testing"
	"time"

	"pgregory.net/rapid"

	"yqhp/gateway-bench/pkg/types"
)

// TestProperty_NoLostUpdates 验证任意交错下并发记录不会丢失更新：
// success + failure == 尝试次数，且样本数等于成功数。
func TestProperty_NoLostUpdates(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		workers := rapid.IntRange(2, 32).Draw(t, "workers")
		perWorker := rapid.IntRange(32, 128).Draw(t, "perWorker")
		failEvery := rapid.IntRange(0, 5).Draw(t, "failEvery")

		a := New()
		var wg sync.WaitGroup
		var expectedFailures int64
		for w := 0; w < workers; w++ {
			for i := 0; i < perWorker; i++ {
				if failEvery > 0 && i%failEvery == 0 {
					expectedFailures++
				}
			}
		}

		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					if failEvery > 0 && i%failEvery == 0 {
						a.Record(types.Failure())
						continue
					}
					a.Record(types.Success(time.Duration(i+1) * time.Millisecond))
				}
			}()
		}
		wg.Wait()

		snap := a.Snapshot()
		total := int64(workers * perWorker)
		if snap.Total() != total {
			t.Fatalf("total = %d, want %d", snap.Total(), total)
		}
		if snap.FailureCount != expectedFailures {
			t.Fatalf("failures = %d, want %d", snap.FailureCount, expectedFailures)
		}
		if int64(len(snap.LatencySamples)) != snap.SuccessCount {
			t.Fatalf("samples = %d, success = %d", len(snap.LatencySamples), snap.SuccessCount)
		}
	})
}
