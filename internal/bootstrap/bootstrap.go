// Package bootstrap 实现压测前的一次性初始化：获取凭证，然后注册测试商户。
// 两步严格按顺序执行，任一步失败都会中止整个压测。
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"yqhp/gateway-bench/internal/client"
	"yqhp/gateway-bench/internal/extractor"
	"yqhp/gateway-bench/pkg/logger"
	"yqhp/gateway-bench/pkg/types"
)

var (
	tokenPath = extractor.MustCompile("$.data.token")
	dataPath  = extractor.MustCompile("$.data")
)

// resourceIDFields 是商户标识的回退字段，按顺序查找。
var resourceIDFields = []string{"id", "merchantId"}

// Config 初始化配置。
type Config struct {
	// AuthURL 是认证服务的基础地址，注册接口为 {AuthURL}/register。
	AuthURL string
	// MerchantURL 是商户注册地址。
	MerchantURL string
	// Password 是测试用户的密码。
	Password string
	// WebhookURL 是测试商户的回调地址。
	WebhookURL string
}

// Result 是初始化的产出，压测阶段只读共享。
type Result struct {
	Credential types.Credential
	ResourceID types.ResourceID
}

// Bootstrapper 执行初始化流程。
type Bootstrapper struct {
	client client.Doer
	config Config
	log    *zap.Logger
}

// New 创建一个新的初始化器。
func New(c client.Doer, config Config, log *zap.Logger) *Bootstrapper {
	if config.Password == "" {
		config.Password = "password123"
	}
	return &Bootstrapper{
		client: c,
		config: config,
		log:    logger.OrNop(log).Named("bootstrap"),
	}
}

// Run 依次执行认证和资源注册。
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	b.log.Info("authenticating", zap.String("url", b.registerURL()))
	cred, err := b.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	b.log.Info("token acquired")

	b.log.Info("registering merchant", zap.String("url", b.config.MerchantURL))
	id, err := b.ProvisionResource(ctx, cred)
	if err != nil {
		return nil, err
	}
	b.log.Info("merchant registered", zap.String("merchant_id", id.String()))

	return &Result{Credential: cred, ResourceID: id}, nil
}

// Authenticate 注册一个临时用户并返回其令牌。
func (b *Bootstrapper) Authenticate(ctx context.Context) (types.Credential, error) {
	suffix := shortSuffix()
	payload := map[string]string{
		"username": "loadtest_user_" + suffix,
		"password": b.config.Password,
		"email":    "loadtest_" + suffix + "@example.com",
	}

	resp, err := b.client.PostJSON(ctx, b.registerURL(), nil, payload)
	if err != nil {
		return "", &AuthError{Err: err}
	}
	if !resp.IsSuccess() {
		return "", &AuthError{StatusCode: resp.StatusCode, Err: ErrUnsuccessfulStatus}
	}

	data, err := extractor.Parse(resp.Body)
	if err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Err: err}
	}
	token, err := tokenPath.GetString(data)
	if err != nil {
		return "", &AuthError{StatusCode: resp.StatusCode, Err: fmt.Errorf("%w: %v", ErrMissingToken, err)}
	}

	return types.Credential(token), nil
}

// ProvisionResource 使用凭证注册测试商户并返回商户标识。
// 标识依次从 data.id、data.merchantId 中解析。
func (b *Bootstrapper) ProvisionResource(ctx context.Context, cred types.Credential) (types.ResourceID, error) {
	suffix := shortSuffix()
	payload := map[string]string{
		"name":       "LoadTest Merchant " + suffix,
		"email":      "merchant_" + suffix + "@test.com",
		"webhookUrl": b.config.WebhookURL,
	}
	headers := map[string]string{"Authorization": cred.BearerHeader()}

	resp, err := b.client.PostJSON(ctx, b.config.MerchantURL, headers, payload)
	if err != nil {
		return "", &ProvisionError{Err: err}
	}
	if !resp.IsSuccess() {
		return "", &ProvisionError{StatusCode: resp.StatusCode, Err: ErrUnsuccessfulStatus}
	}

	body, err := extractor.Parse(resp.Body)
	if err != nil {
		return "", &ProvisionError{StatusCode: resp.StatusCode, Err: err}
	}
	b.log.Debug("merchant response", zap.ByteString("body", resp.Body))

	id, ok := resolveResourceID(body)
	if !ok {
		return "", &ProvisionError{StatusCode: resp.StatusCode, Err: ErrMissingResourceID}
	}
	return types.ResourceID(id), nil
}

// resolveResourceID 从响应的 data 对象中按回退顺序解析标识。
func resolveResourceID(body any) (string, bool) {
	raw, err := dataPath.Get(body)
	if err != nil {
		return "", false
	}
	obj, err := extractor.AsObject(raw)
	if err != nil {
		return "", false
	}
	return extractor.FirstPresent(obj, resourceIDFields...)
}

func (b *Bootstrapper) registerURL() string {
	return strings.TrimRight(b.config.AuthURL, "/") + "/register"
}

func shortSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
