package report

import (
	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// 以微秒记录，范围 1µs 到 1 小时，3 位有效数字
	histogramMinUs   = 1
	histogramMaxUs   = 3_600_000_000
	histogramSigFigs = 3
)

// Bucket is one non-empty bar of the latency distribution, in milliseconds.
type Bucket struct {
	FromMs float64 `json:"from_ms"`
	ToMs   float64 `json:"to_ms"`
	Count  int64   `json:"count"`
}

type histogram struct {
	h *hdrhistogram.Histogram
}

// newHistogram 从毫秒样本构建 HDR 直方图
func newHistogram(samplesMs []float64) (*histogram, error) {
	h := hdrhistogram.New(histogramMinUs, histogramMaxUs, histogramSigFigs)
	for _, ms := range samplesMs {
		us := int64(ms * 1000)
		if us < histogramMinUs {
			us = histogramMinUs
		}
		if err := h.RecordValue(us); err != nil {
			return nil, err
		}
	}
	return &histogram{h: h}, nil
}

func (h *histogram) stdDevMs() float64 {
	return h.h.StdDev() / 1000
}

func (h *histogram) buckets() []Bucket {
	var out []Bucket
	for _, bar := range h.h.Distribution() {
		if bar.Count == 0 {
			continue
		}
		out = append(out, Bucket{
			FromMs: float64(bar.From) / 1000,
			ToMs:   float64(bar.To) / 1000,
			Count:  bar.Count,
		})
	}
	return out
}
