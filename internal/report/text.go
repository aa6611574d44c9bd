package report

import (
	"fmt"
	"io"
)

// WriteText prints the summary in the console layout.
func WriteText(w io.Writer, s *Summary) error {
	lines := []string{
		"",
		"--- Results ---",
		fmt.Sprintf("%-18s %d", "Total Requests:", s.Total),
		fmt.Sprintf("%-18s %d", "Successful:", s.Successful),
		fmt.Sprintf("%-18s %d", "Failed:", s.Failed),
		fmt.Sprintf("%-18s %.2f seconds", "Duration:", s.Seconds),
		fmt.Sprintf("%-18s %.2f", "Throughput (RPS):", s.Throughput),
	}

	// 样本不足的百分位不输出
	latency := []struct {
		label string
		value *float64
	}{
		{"Avg Latency:", s.Avg},
		{"P50 Latency:", s.P50},
		{"P95 Latency:", s.P95},
		{"P99 Latency:", s.P99},
	}
	for _, l := range latency {
		if l.value != nil {
			lines = append(lines, fmt.Sprintf("%-18s %.2f ms", l.label, *l.value))
		}
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
