package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yqhp/gateway-bench/internal/bootstrap"
	"yqhp/gateway-bench/internal/client"
	"yqhp/gateway-bench/internal/config"
	"yqhp/gateway-bench/internal/runner"
	"yqhp/gateway-bench/internal/verify"
	"yqhp/gateway-bench/pkg/logger"
)

var verifyFlagPaths = map[string]string{
	"auth-url":     "target.auth_url",
	"merchant-url": "target.merchant_url",
	"payment-url":  "target.payment_url",
	"timeout":      "load.request_timeout",
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "冒烟验证网关的授权与风控规则",
		Long: `注册测试用户和商户后提交两笔交易：
  - 正常交易，期望状态为 AUTHORIZED
  - 新客户的高额交易 (amount=300)，期望状态为 FAILED 且原因包含 Fraud`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.String("auth-url", "", "认证服务地址")
	f.String("merchant-url", "", "商户服务地址")
	f.String("payment-url", "", "支付服务地址")
	f.Duration("timeout", 0, "单次请求超时")
	return cmd
}

func runVerify(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := opts.loadConfig(changedFlags(cmd, verifyFlagPaths))
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return runner.Exit(runner.ExitConfig, err)
	}
	log, err := opts.initLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	paymentConfig, err := runner.PaymentConfig(cfg)
	if err != nil {
		return runner.Exit(runner.ExitConfig, err)
	}
	v := verify.New(
		client.New(runner.ClientConfig(cfg)),
		runner.BootstrapConfig(cfg),
		paymentConfig,
		log,
	)

	results, err := v.Run(cmd.Context())
	for _, r := range results {
		mark := "PASS"
		if !r.Passed {
			mark = "FAIL"
		}
		line := fmt.Sprintf("%s  %-18s expected=%s status=%s", mark, r.Scenario.Name, r.Scenario.ExpectStatus, r.Status)
		if r.Reason != "" {
			line += fmt.Sprintf(" reason=%q", r.Reason)
		}
		if r.Err != nil {
			line += fmt.Sprintf(" error=%v", r.Err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}

	switch {
	case err == nil:
		return nil
	case bootstrap.IsFatal(err):
		return runner.Exit(runner.ExitFatal, err)
	case errors.Is(err, verify.ErrScenarioFailed):
		return runner.Exit(runner.ExitVerify, err)
	default:
		return err
	}
}
