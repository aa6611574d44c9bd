package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "http://localhost:8081/auth", cfg.Target.AuthURL)
	assert.Equal(t, "http://localhost:8083/merchants", cfg.Target.MerchantURL)
	assert.Equal(t, "http://localhost:8082/payments", cfg.Target.PaymentURL)
	assert.Equal(t, 1, cfg.Load.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Load.Duration)
	assert.Equal(t, 10*time.Second, cfg.Load.RequestTimeout)
	assert.Equal(t, 0.0, cfg.Load.Rate)
	assert.Equal(t, 10, cfg.Payment.MinAmount)
	assert.Equal(t, 500, cfg.Payment.MaxAmount)
	assert.Equal(t, FormatText, cfg.Report.Format)
	assert.NoError(t, Validate(cfg))
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bench.yaml")
	content := `
target:
  auth_url: http://auth.test/auth
load:
  concurrency: 8
  duration: 2m
  rate: 50
payment:
  max_amount: 900
report:
  format: json
  json_file: out.json
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := LoadFromFile(configPath)
	require.NoError(t, err)

	assert.Equal(t, "http://auth.test/auth", cfg.Target.AuthURL)
	assert.Equal(t, "http://localhost:8083/merchants", cfg.Target.MerchantURL)
	assert.Equal(t, 8, cfg.Load.Concurrency)
	assert.Equal(t, 2*time.Minute, cfg.Load.Duration)
	assert.Equal(t, 50.0, cfg.Load.Rate)
	assert.Equal(t, 900, cfg.Payment.MaxAmount)
	assert.Equal(t, 10, cfg.Payment.MinAmount)
	assert.Equal(t, FormatJSON, cfg.Report.Format)
	assert.Equal(t, "out.json", cfg.Report.JSONFile)
}

func TestLoadFromMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("load: [unterminated"), 0644))

	_, err := LoadFromFile(configPath)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GB_CONCURRENCY", "16")
	t.Setenv("GB_DURATION", "45s")
	t.Setenv("GB_PAYMENT_URL", "http://pay.test/payments")
	t.Setenv("GB_LOG_LEVEL", "debug")
	t.Setenv("GB_MOCK_REQUIRE_AUTH", "false")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Load.Concurrency)
	assert.Equal(t, 45*time.Second, cfg.Load.Duration)
	assert.Equal(t, "http://pay.test/payments", cfg.Target.PaymentURL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.Mock.RequireAuth)
}

func TestEnvPrefix(t *testing.T) {
	t.Setenv("BENCH_CONCURRENCY", "3")

	cfg, err := NewLoader().WithEnvPrefix("BENCH_").Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Load.Concurrency)
}

func TestInvalidEnvValue(t *testing.T) {
	t.Setenv("GB_CONCURRENCY", "many")

	_, err := NewLoader().Load()
	assert.Error(t, err)
}

func TestPrecedence(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "bench.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("load:\n  concurrency: 2\n  duration: 10s\n"), 0644))
	t.Setenv("GB_CONCURRENCY", "4")

	cfg, err := NewLoader().
		WithConfigPath(configPath).
		WithCmdArgs(map[string]string{"load.concurrency": "6"}).
		Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Load.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Load.Duration)
}

func TestSetValue(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, SetValue(cfg, "load.max_error_rate", "0.05"))
	require.NoError(t, SetValue(cfg, "load.request_timeout", "3s"))
	require.NoError(t, SetValue(cfg, "mock.id_field", "merchantId"))
	require.NoError(t, SetValue(cfg, "report.prometheus_file", "bench.prom"))

	assert.Equal(t, 0.05, cfg.Load.MaxErrorRate)
	assert.Equal(t, 3*time.Second, cfg.Load.RequestTimeout)
	assert.Equal(t, "merchantId", cfg.Mock.IDField)
	assert.Equal(t, "bench.prom", cfg.Report.PrometheusFile)

	assert.Error(t, SetValue(cfg, "load.unknown", "1"))
	assert.Error(t, SetValue(cfg, "load.concurrency.deep", "1"))
	assert.Error(t, SetValue(cfg, "load.duration", "soon"))
}

func TestSerializeRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Load.Duration = 90 * time.Second

	data, err := cfg.Serialize()
	require.NoError(t, err)

	parsed, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, parsed)
}
