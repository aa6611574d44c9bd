// Package workload 定义压测的目标操作：携带凭证和商户标识提交支付交易。
package workload

import (
	"context"
	"strings"

	"github.com/duke-git/lancet/v2/random"
	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/client"
	"yqhp/gateway-bench/pkg/logger"
	"yqhp/gateway-bench/pkg/types"
)

// successStatus 是交易提交唯一认可的成功状态码。
const successStatus = 200

// PaymentConfig 支付请求配置。
type PaymentConfig struct {
	// URL 是支付服务的基础地址，提交接口为 {URL}/process。
	URL            string
	Currency       string
	MinAmount      int
	MaxAmount      int
	PaymentMethod  string
	CardNumber     string
	ExpiryMonth    string
	ExpiryYear     string
	CVV            string
	CardHolderName string
	CustomerEmail  string
	Description    string
}

// DefaultPaymentConfig 返回默认的支付请求配置。
func DefaultPaymentConfig() PaymentConfig {
	return PaymentConfig{
		URL:            "http://localhost:8082/payments",
		Currency:       "USD",
		MinAmount:      10,
		MaxAmount:      500,
		PaymentMethod:  "CARD",
		CardNumber:     "4111222233334444",
		ExpiryMonth:    "12",
		ExpiryYear:     "2030",
		CVV:            "123",
		CardHolderName: "Load Tester",
		CustomerEmail:  "tester@example.com",
	}
}

// PaymentRequest 是提交到支付服务的请求体。
type PaymentRequest struct {
	MerchantID     string  `json:"merchantId"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PaymentMethod  string  `json:"paymentMethod"`
	CardNumber     string  `json:"cardNumber"`
	ExpiryMonth    string  `json:"expiryMonth"`
	ExpiryYear     string  `json:"expiryYear"`
	CVV            string  `json:"cvv"`
	CardHolderName string  `json:"cardHolderName"`
	CustomerEmail  string  `json:"customerEmail"`
	Description    string  `json:"description,omitempty"`
}

// Payment 提交支付交易。凭证和商户标识在创建后只读，可被所有 worker 共享。
type Payment struct {
	client     client.Doer
	config     PaymentConfig
	credential types.Credential
	merchantID types.ResourceID
	headers    map[string]string
	log        *zap.Logger
}

// NewPayment 创建支付目标操作。
func NewPayment(c client.Doer, config PaymentConfig, cred types.Credential, merchantID types.ResourceID, log *zap.Logger) *Payment {
	if config.MaxAmount < config.MinAmount {
		config.MaxAmount = config.MinAmount
	}
	return &Payment{
		client:     c,
		config:     config,
		credential: cred,
		merchantID: merchantID,
		headers:    map[string]string{"Authorization": cred.BearerHeader()},
		log:        logger.OrNop(log).Named("payment"),
	}
}

// ProcessURL 返回交易提交地址。
func (p *Payment) ProcessURL() string {
	return strings.TrimRight(p.config.URL, "/") + "/process"
}

// NewRequest 构建一笔随机金额的交易请求。
func (p *Payment) NewRequest() *PaymentRequest {
	return &PaymentRequest{
		MerchantID:     p.merchantID.String(),
		Amount:         float64(p.randomAmount()),
		Currency:       p.config.Currency,
		PaymentMethod:  p.config.PaymentMethod,
		CardNumber:     p.config.CardNumber,
		ExpiryMonth:    p.config.ExpiryMonth,
		ExpiryYear:     p.config.ExpiryYear,
		CVV:            p.config.CVV,
		CardHolderName: p.config.CardHolderName,
		CustomerEmail:  p.config.CustomerEmail,
		Description:    p.config.Description,
	}
}

// Submit 提交一笔交易。只有 HTTP 200 视为成功，其余状态码、网络错误和超时都返回错误。
func (p *Payment) Submit(ctx context.Context) error {
	_, err := p.Send(ctx, p.NewRequest())
	return err
}

// Send 提交指定的交易请求，返回原始响应供需要检查响应体的调用方使用。
func (p *Payment) Send(ctx context.Context, req *PaymentRequest) (*client.Response, error) {
	resp, err := p.client.PostJSON(ctx, p.ProcessURL(), p.headers, req)
	if err != nil {
		p.log.Debug("payment request failed", zap.Error(err))
		return nil, err
	}
	if resp.StatusCode != successStatus {
		p.log.Debug("payment rejected", zap.Int("status", resp.StatusCode))
		return resp, &client.StatusError{StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}
	return resp, nil
}

// randomAmount 返回 [MinAmount, MaxAmount] 内的随机整数金额。
func (p *Payment) randomAmount() int {
	if p.config.MaxAmount <= p.config.MinAmount {
		return p.config.MinAmount
	}
	return random.RandInt(p.config.MinAmount, p.config.MaxAmount+1)
}
