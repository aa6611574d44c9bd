package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/runner"
	"yqhp/gateway-bench/pkg/logger"
)

// run 命令 flags 与配置路径的对应关系
var runFlagPaths = map[string]string{
	"concurrency":    "load.concurrency",
	"duration":       "load.duration",
	"rate":           "load.rate",
	"timeout":        "load.request_timeout",
	"max-error-rate": "load.max_error_rate",
	"progress":       "load.progress_interval",
	"auth-url":       "target.auth_url",
	"merchant-url":   "target.merchant_url",
	"payment-url":    "target.payment_url",
	"format":         "report.format",
	"out-json":       "report.json_file",
	"out-prometheus": "report.prometheus_file",
}

func newRunCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "执行压测",
		Long: `注册测试用户和商户后，以固定并发在指定时长内持续提交支付交易。

按 Ctrl+C 会停止派发新批次，等待进行中的请求完成后输出报告。`,
		Example: `  # 默认配置 (1 并发, 30 秒)
  gateway-bench run

  # 指定并发和时长
  gateway-bench run -c 20 -d 1m

  # JSON 报告，错误率超过 1% 时以退出码 3 结束
  gateway-bench run --format json --max-error-rate 0.01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntP("concurrency", "c", 1, "并发 worker 数")
	f.DurationP("duration", "d", 0, "压测时长")
	f.Float64("rate", 0, "每秒派发任务数上限 (0 表示不限速)")
	f.Duration("timeout", 0, "单次请求超时")
	f.Float64("max-error-rate", 0, "允许的最大错误率 (0 表示不检查)")
	f.Duration("progress", 0, "进度日志间隔")
	f.String("auth-url", "", "认证服务地址")
	f.String("merchant-url", "", "商户服务地址")
	f.String("payment-url", "", "支付服务地址")
	f.String("format", "", "报告格式 (text, json)")
	f.String("out-json", "", "输出 JSON 报告到文件")
	f.String("out-prometheus", "", "输出 Prometheus textfile 到文件")
	return cmd
}

func runBench(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.loadConfig(changedFlags(cmd, runFlagPaths))
	if err != nil {
		return err
	}
	log, err := opts.initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := withSignalCancel(cmd.Context(), log)
	defer cancel()

	_, err = runner.New(cfg, log, runner.WithStdout(cmd.OutOrStdout())).Run(ctx)
	if err != nil {
		log.Debug("run finished with error", zap.Int("exit_code", runner.ExitCode(err)), zap.Error(err))
	}
	return err
}

// withSignalCancel 在收到 SIGINT/SIGTERM 时取消上下文。
// 压测阶段会停止派发新批次，进行中的请求不受影响。
func withSignalCancel(parent context.Context, log *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			log.Warn("signal received, draining in-flight requests", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}
