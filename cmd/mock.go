package cmd

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/config"
	"yqhp/gateway-bench/internal/mockgateway"
	"yqhp/gateway-bench/internal/runner"
	"yqhp/gateway-bench/pkg/logger"
)

var mockFlagPaths = map[string]string{
	"addr":       "mock.address",
	"latency":    "mock.latency",
	"fail-every": "mock.fail_every",
	"id-field":   "mock.id_field",
}

func newMockCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mock",
		Short: "启动本地模拟网关",
		Long: `在单个端口上模拟认证、商户和支付三个服务：
  POST /auth/register
  POST /merchants
  POST /payments/process`,
		Example: `  gateway-bench mock --addr 127.0.0.1:8090 --latency 20ms
  gateway-bench run --auth-url http://127.0.0.1:8090/auth \
    --merchant-url http://127.0.0.1:8090/merchants \
    --payment-url http://127.0.0.1:8090/payments`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMock(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.String("addr", "", "监听地址")
	f.Duration("latency", 0, "每笔支付请求附加的延迟")
	f.Int("fail-every", 0, "每 N 笔支付请求返回一次 500 (0 表示不注入失败)")
	f.String("id-field", "", "商户标识字段 (id, merchantId, none)")
	f.Bool("no-auth", false, "不校验 Bearer token")
	return cmd
}

func runMock(cmd *cobra.Command, opts *globalOptions) error {
	overrides := changedFlags(cmd, mockFlagPaths)
	// --no-auth 是 mock.require_auth 的取反
	if noAuth, _ := cmd.Flags().GetBool("no-auth"); noAuth {
		overrides["mock.require_auth"] = "false"
	}

	cfg, err := opts.loadConfig(overrides)
	if err != nil {
		return err
	}
	if err := config.NewValidator().ValidateMock(cfg); err != nil {
		return runner.Exit(runner.ExitConfig, err)
	}
	log, err := opts.initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	mockConfig, err := runner.MockConfig(cfg)
	if err != nil {
		return runner.Exit(runner.ExitConfig, err)
	}
	server := mockgateway.NewServer(mockConfig, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(cfg.Mock.Address)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Info("shutting down mock gateway", zap.Stringer("signal", sig))
	case <-cmd.Context().Done():
	}

	if err := server.Shutdown(); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
