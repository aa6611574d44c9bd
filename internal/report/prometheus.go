package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricNamespace = "gateway_bench"

// Registry builds a registry holding the summary as gauges.
func Registry(s *Summary) *prometheus.Registry {
	reg := prometheus.NewRegistry()

	gauge := func(name, help string, value float64) {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricNamespace,
			Name:      name,
			Help:      help,
		})
		g.Set(value)
		reg.MustRegister(g)
	}

	gauge("requests_total", "Completed transaction attempts.", float64(s.Total))
	gauge("requests_successful", "Successful transaction attempts.", float64(s.Successful))
	gauge("requests_failed", "Failed transaction attempts.", float64(s.Failed))
	gauge("duration_seconds", "Wall-clock duration of the load phase.", s.Seconds)
	gauge("throughput_rps", "Completed attempts per second.", s.Throughput)
	gauge("error_rate", "Failed attempts divided by total attempts.", s.ErrorRate)

	latency := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: metricNamespace,
		Name:      "latency_milliseconds",
		Help:      "Latency statistics of successful attempts.",
	}, []string{"stat"})
	set := func(stat string, v *float64) {
		if v != nil {
			latency.WithLabelValues(stat).Set(*v)
		}
	}
	set("avg", s.Avg)
	set("min", s.Min)
	set("max", s.Max)
	set("p50", s.P50)
	set("p95", s.P95)
	set("p99", s.P99)
	set("stddev", s.StdDev)
	reg.MustRegister(latency)

	return reg
}

// WritePrometheusTextfile writes the summary in the node-exporter textfile format.
func WritePrometheusTextfile(path string, s *Summary) error {
	return prometheus.WriteToTextfile(path, Registry(s))
}
