// Package cmd 提供 gateway-bench CLI 的命令实现
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/config"
	"yqhp/gateway-bench/internal/runner"
	"yqhp/gateway-bench/pkg/logger"
)

const (
	// Version 是当前版本号
	Version = "0.1.0"
	// Banner 是版本信息中显示的 ASCII 艺术
	Banner = `
     ___________
    |  _______  |   Gateway Bench %s
    | |_______| |   closed-loop payment gateway load tester
    |___________|
`
)

// globalOptions 是所有子命令共享的 flags
type globalOptions struct {
	cfgFile string
	debug   bool
	quiet   bool
	set     []string
}

// NewRootCmd 创建根命令
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "gateway-bench",
		Short: "支付网关闭环压测工具",
		Long: `gateway-bench 先注册测试用户和测试商户，然后以固定并发在指定时长内
持续提交支付交易，最后输出吞吐量和延迟百分位。`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "配置文件路径")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "启用调试日志")
	root.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "静默模式，只输出错误日志")
	root.PersistentFlags().StringArrayVar(&opts.set, "set", nil, "覆盖配置项 (可多次指定)，格式: load.concurrency=8")

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate(fmt.Sprintf(Banner, Version) + "\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return runner.Exit(runner.ExitConfig, err)
	})

	root.AddCommand(
		newRunCmd(opts),
		newVerifyCmd(opts),
		newMockCmd(opts),
		newVersionCmd(),
	)
	return root
}

// Execute 执行根命令并返回进程退出码
func Execute() int {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return runner.ExitCode(err)
}

// loadConfig 按 默认值 < 配置文件 < 环境变量 < --set < 子命令 flags 的顺序加载配置
func (o *globalOptions) loadConfig(overrides map[string]string) (*config.Config, error) {
	args := make(map[string]string, len(o.set)+len(overrides))
	for _, kv := range o.set {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, runner.Exit(runner.ExitConfig, fmt.Errorf("无效的 --set 参数: %q", kv))
		}
		args[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	for k, v := range overrides {
		args[k] = v
	}

	cfg, err := config.NewLoader().WithConfigPath(o.cfgFile).WithCmdArgs(args).Load()
	if err != nil {
		return nil, runner.Exit(runner.ExitConfig, err)
	}

	switch {
	case o.debug:
		cfg.Logging.Level = "debug"
	case o.quiet:
		cfg.Logging.Level = "error"
	}
	return cfg, nil
}

// initLogger 初始化全局日志
func (o *globalOptions) initLogger(cfg *config.Config) (*zap.Logger, error) {
	lc, err := runner.LoggerConfig(cfg)
	if err != nil {
		return nil, runner.Exit(runner.ExitConfig, err)
	}
	return logger.Init(lc), nil
}

// changedFlags 收集用户显式设置过的 flags，映射为配置路径
func changedFlags(cmd *cobra.Command, mapping map[string]string) map[string]string {
	out := make(map[string]string)
	for flag, path := range mapping {
		f := cmd.Flags().Lookup(flag)
		if f != nil && f.Changed {
			out[path] = f.Value.String()
		}
	}
	return out
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "显示版本信息",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), Banner+"\n", Version)
		},
	}
}
