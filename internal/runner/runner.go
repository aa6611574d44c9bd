// Package runner 串联一次完整的压测：初始化、压测阶段和报告。
package runner

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/aggregator"
	"yqhp/gateway-bench/internal/bootstrap"
	"yqhp/gateway-bench/internal/client"
	"yqhp/gateway-bench/internal/config"
	"yqhp/gateway-bench/internal/report"
	"yqhp/gateway-bench/internal/scheduler"
	"yqhp/gateway-bench/internal/workload"
	"yqhp/gateway-bench/pkg/logger"
)

// Runner executes one benchmark run.
type Runner struct {
	config *config.Config
	doer   client.Doer
	stdout io.Writer
	log    *zap.Logger

	onStateChange func(from, to scheduler.State)
}

// Option configures a Runner.
type Option func(*Runner)

// WithDoer replaces the HTTP client.
func WithDoer(d client.Doer) Option {
	return func(r *Runner) { r.doer = d }
}

// WithStdout sets where the report is written.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithStateObserver receives scheduler state transitions.
func WithStateObserver(fn func(from, to scheduler.State)) Option {
	return func(r *Runner) { r.onStateChange = fn }
}

// New creates a runner for cfg.
func New(cfg *config.Config, log *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		config: cfg,
		stdout: os.Stdout,
		log:    logger.OrNop(log),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.doer == nil {
		r.doer = client.New(ClientConfig(cfg))
	}
	return r
}

// Run bootstraps the workflow, runs the load phase and writes the report.
// The summary is returned even when the error-rate threshold fails the run.
func (r *Runner) Run(ctx context.Context) (*report.Summary, error) {
	if err := config.Validate(r.config); err != nil {
		return nil, Exit(ExitConfig, err)
	}

	boot, err := bootstrap.New(r.doer, BootstrapConfig(r.config), r.log).Run(ctx)
	if err != nil {
		r.log.Error("bootstrap failed, no load generated", zap.Error(err))
		return nil, Exit(ExitFatal, err)
	}

	paymentConfig, err := PaymentConfig(r.config)
	if err != nil {
		return nil, Exit(ExitConfig, err)
	}
	agg := aggregator.New()
	payment := workload.NewPayment(r.doer, paymentConfig, boot.Credential, boot.ResourceID, r.log)

	sched := scheduler.New(scheduler.Config{
		Concurrency:      r.config.Load.Concurrency,
		Duration:         r.config.Load.Duration,
		Rate:             r.config.Load.Rate,
		ProgressInterval: r.config.Load.ProgressInterval,
		Progress:         agg.Completed,
		OnStateChange:    r.onStateChange,
	}, agg, r.log)

	stats, err := sched.Run(ctx, payment.Submit)
	if err != nil {
		return nil, Exit(ExitConfig, err)
	}

	summary := report.Generate(agg.Snapshot(), stats.Elapsed)
	if err := r.writeReport(summary); err != nil {
		return summary, Exit(ExitFatal, err)
	}

	if limit := r.config.Load.MaxErrorRate; limit > 0 && summary.ErrorRate > limit {
		r.log.Warn("error rate above threshold",
			zap.Float64("error_rate", summary.ErrorRate),
			zap.Float64("max_error_rate", limit))
		return summary, Exit(ExitThreshold,
			fmt.Errorf("%w: %.4f > %.4f", ErrThresholdExceeded, summary.ErrorRate, limit))
	}
	return summary, nil
}

func (r *Runner) writeReport(summary *report.Summary) error {
	rc := r.config.Report

	var err error
	switch rc.Format {
	case config.FormatJSON:
		err = report.WriteJSON(r.stdout, summary)
	default:
		err = report.WriteText(r.stdout, summary)
	}
	if err != nil {
		return fmt.Errorf("写入报告失败: %w", err)
	}

	if rc.JSONFile != "" {
		if err := report.WriteJSONFile(rc.JSONFile, summary); err != nil {
			return fmt.Errorf("写入 JSON 报告失败: %w", err)
		}
		r.log.Info("json report written", zap.String("path", rc.JSONFile))
	}
	if rc.PrometheusFile != "" {
		if err := report.WritePrometheusTextfile(rc.PrometheusFile, summary); err != nil {
			return fmt.Errorf("写入 Prometheus 报告失败: %w", err)
		}
		r.log.Info("prometheus textfile written", zap.String("path", rc.PrometheusFile))
	}
	return nil
}
