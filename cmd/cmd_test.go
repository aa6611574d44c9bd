package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yqhp/gateway-bench/internal/mockgateway"
	"yqhp/gateway-bench/internal/runner"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func startMock(t *testing.T) *mockgateway.Server {
	t.Helper()
	s := mockgateway.NewServer(mockgateway.DefaultConfig(), nil)
	require.NoError(t, s.Start("127.0.0.1:0"))
	t.Cleanup(func() { _ = s.Shutdown() })
	return s
}

func targetArgs(s *mockgateway.Server) []string {
	return []string{
		"--auth-url", s.AuthURL(),
		"--merchant-url", s.MerchantURL(),
		"--payment-url", s.PaymentURL(),
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Gateway Bench "+Version)
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	_, err := execute(t, "run", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, runner.ExitConfig, runner.ExitCode(err))
}

func TestInvalidSetOverride(t *testing.T) {
	_, err := execute(t, "--set", "load.concurrency", "run")
	require.Error(t, err)
	assert.Equal(t, runner.ExitConfig, runner.ExitCode(err))
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	_, err := execute(t, "run", "-c", "0", "-q")
	require.Error(t, err)
	assert.Equal(t, runner.ExitConfig, runner.ExitCode(err))
}

func TestRunCommand_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "run")
	require.Error(t, err)
	assert.Equal(t, runner.ExitConfig, runner.ExitCode(err))
}

func TestRunCommand_AgainstMock(t *testing.T) {
	s := startMock(t)
	promFile := filepath.Join(t.TempDir(), "bench.prom")

	args := append([]string{"-q", "run", "-c", "2", "-d", "200ms", "--out-prometheus", promFile}, targetArgs(s)...)
	out, err := execute(t, args...)
	require.NoError(t, err)

	assert.Contains(t, out, "Total Requests:")
	assert.Contains(t, out, "Avg Latency:")
	assert.Greater(t, s.Calls(mockgateway.EndpointPayment), int64(0))
	_, err = os.Stat(promFile)
	assert.NoError(t, err)
}

func TestRunCommand_SetOverride(t *testing.T) {
	s := startMock(t)

	args := append([]string{"-q", "--set", "report.format=json", "run", "-d", "100ms"}, targetArgs(s)...)
	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Contains(t, out, `"throughput_rps"`)
}

func TestVerifyCommand(t *testing.T) {
	s := startMock(t)

	out, err := execute(t, append([]string{"-q", "verify"}, targetArgs(s)...)...)
	require.NoError(t, err)
	assert.Contains(t, out, "PASS  clean payment")
	assert.Contains(t, out, "PASS  cold-start fraud")
}

func TestVerifyCommand_BootstrapFailure(t *testing.T) {
	mc := mockgateway.DefaultConfig()
	mc.FailRegister = true
	s := mockgateway.NewServer(mc, nil)
	require.NoError(t, s.Start("127.0.0.1:0"))
	t.Cleanup(func() { _ = s.Shutdown() })

	_, err := execute(t, append([]string{"-q", "verify"}, targetArgs(s)...)...)
	require.Error(t, err)
	assert.Equal(t, runner.ExitFatal, runner.ExitCode(err))
}

func TestMockCommand_InvalidIDField(t *testing.T) {
	_, err := execute(t, "-q", "mock", "--id-field", "uuid")
	require.Error(t, err)
	assert.Equal(t, runner.ExitConfig, runner.ExitCode(err))
}
