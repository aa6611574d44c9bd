package runner

import (
	"fmt"

	"github.com/jinzhu/copier"

	"yqhp/gateway-bench/internal/bootstrap"
	"yqhp/gateway-bench/internal/client"
	"yqhp/gateway-bench/internal/config"
	"yqhp/gateway-bench/internal/mockgateway"
	"yqhp/gateway-bench/internal/workload"
	"yqhp/gateway-bench/pkg/logger"
)

// 将配置转换为各组件的配置

// ClientConfig returns the HTTP client settings.
func ClientConfig(cfg *config.Config) client.Config {
	return client.Config{
		Timeout:         cfg.Load.RequestTimeout,
		MaxConnsPerHost: cfg.Load.MaxConnsPerHost,
	}
}

// BootstrapConfig returns the bootstrap endpoints.
func BootstrapConfig(cfg *config.Config) bootstrap.Config {
	return bootstrap.Config{
		AuthURL:     cfg.Target.AuthURL,
		MerchantURL: cfg.Target.MerchantURL,
		Password:    cfg.Target.Password,
		WebhookURL:  cfg.Target.WebhookURL,
	}
}

// PaymentConfig returns the payment payload template. Fields are copied by name.
func PaymentConfig(cfg *config.Config) (workload.PaymentConfig, error) {
	var p workload.PaymentConfig
	if err := copier.Copy(&p, &cfg.Payment); err != nil {
		return p, fmt.Errorf("转换支付配置失败: %w", err)
	}
	p.URL = cfg.Target.PaymentURL
	return p, nil
}

// LoggerConfig returns the logger settings.
func LoggerConfig(cfg *config.Config) (*logger.Config, error) {
	l := &logger.Config{}
	if err := copier.Copy(l, &cfg.Logging); err != nil {
		return nil, fmt.Errorf("转换日志配置失败: %w", err)
	}
	return l, nil
}

// MockConfig returns the mock gateway settings.
func MockConfig(cfg *config.Config) (*mockgateway.Config, error) {
	m := &mockgateway.Config{}
	if err := copier.Copy(m, &cfg.Mock); err != nil {
		return nil, fmt.Errorf("转换模拟网关配置失败: %w", err)
	}
	return m, nil
}
