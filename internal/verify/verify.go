// Package verify 对网关做冒烟验证：初始化后提交一笔正常交易和一笔高风险新客户交易，
// 检查两者分别被授权和被风控拦截。
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/bootstrap"
	"yqhp/gateway-bench/internal/client"
	"yqhp/gateway-bench/internal/extractor"
	"yqhp/gateway-bench/internal/workload"
	"yqhp/gateway-bench/pkg/logger"
)

// 交易状态
const (
	StatusAuthorized = "AUTHORIZED"
	StatusFailed     = "FAILED"
)

var (
	statusPath = extractor.MustCompile("$.data.status")
	reasonPath = extractor.MustCompile("$.data.failureReason")
)

// ErrScenarioFailed is returned when at least one scenario did not meet its expectation.
var ErrScenarioFailed = errors.New("verification scenario failed")

// Scenario is one payment and its expected outcome.
type Scenario struct {
	Name          string
	Amount        float64
	CustomerEmail string
	ExpectStatus  string
	// ExpectReason must be contained in the failure reason when set.
	ExpectReason string
}

// Result is the observed outcome of a scenario.
type Result struct {
	Scenario Scenario
	Status   string
	Reason   string
	Passed   bool
	Err      error
}

// DefaultScenarios returns the clean-payment and cold-start fraud scenarios.
func DefaultScenarios() []Scenario {
	suffix := uuid.NewString()[:8]
	return []Scenario{
		{
			Name:          "clean payment",
			Amount:        50,
			CustomerEmail: "existing_" + suffix + "@example.com",
			ExpectStatus:  StatusAuthorized,
		},
		{
			Name:          "cold-start fraud",
			Amount:        300,
			CustomerEmail: "new_" + suffix + "@example.com",
			ExpectStatus:  StatusFailed,
			ExpectReason:  "Fraud",
		},
	}
}

// Verifier runs the scenarios against the gateway.
type Verifier struct {
	client    client.Doer
	bootstrap bootstrap.Config
	payment   workload.PaymentConfig
	scenarios []Scenario
	log       *zap.Logger
}

// New creates a verifier with the default scenarios.
func New(c client.Doer, boot bootstrap.Config, payment workload.PaymentConfig, log *zap.Logger) *Verifier {
	return &Verifier{
		client:    c,
		bootstrap: boot,
		payment:   payment,
		scenarios: DefaultScenarios(),
		log:       logger.OrNop(log).Named("verify"),
	}
}

// WithScenarios replaces the scenarios.
func (v *Verifier) WithScenarios(scenarios ...Scenario) *Verifier {
	v.scenarios = scenarios
	return v
}

// Run bootstraps once and submits every scenario. Bootstrap errors are returned
// as is; scenario mismatches yield ErrScenarioFailed along with all results.
func (v *Verifier) Run(ctx context.Context) ([]Result, error) {
	boot, err := bootstrap.New(v.client, v.bootstrap, v.log).Run(ctx)
	if err != nil {
		return nil, err
	}

	payment := workload.NewPayment(v.client, v.payment, boot.Credential, boot.ResourceID, v.log)

	results := make([]Result, 0, len(v.scenarios))
	failed := 0
	for _, sc := range v.scenarios {
		res := v.runScenario(ctx, payment, sc)
		if res.Passed {
			v.log.Info("scenario passed", zap.String("scenario", sc.Name), zap.String("status", res.Status))
		} else {
			failed++
			v.log.Warn("scenario failed",
				zap.String("scenario", sc.Name),
				zap.String("expected", sc.ExpectStatus),
				zap.String("status", res.Status),
				zap.String("reason", res.Reason),
				zap.Error(res.Err))
		}
		results = append(results, res)
	}

	if failed > 0 {
		return results, fmt.Errorf("%w: %d of %d", ErrScenarioFailed, failed, len(v.scenarios))
	}
	return results, nil
}

func (v *Verifier) runScenario(ctx context.Context, payment *workload.Payment, sc Scenario) Result {
	res := Result{Scenario: sc}

	req := payment.NewRequest()
	req.Amount = sc.Amount
	req.CustomerEmail = sc.CustomerEmail

	resp, err := payment.Send(ctx, req)
	if err != nil {
		res.Err = err
		return res
	}

	body, err := extractor.Parse(resp.Body)
	if err != nil {
		res.Err = err
		return res
	}
	res.Status, err = statusPath.GetString(body)
	if err != nil {
		res.Err = fmt.Errorf("读取交易状态失败: %w", err)
		return res
	}
	res.Reason, _ = reasonPath.GetString(body)

	res.Passed = res.Status == sc.ExpectStatus &&
		(sc.ExpectReason == "" || strings.Contains(res.Reason, sc.ExpectReason))
	return res
}
