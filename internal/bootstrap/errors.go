package bootstrap

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsuccessfulStatus 表示初始化请求返回了非 2xx 状态码。
	ErrUnsuccessfulStatus = errors.New("unsuccessful response status")

	// ErrMissingToken 表示认证响应中缺少令牌字段。
	ErrMissingToken = errors.New("token field missing from response")

	// ErrMissingResourceID 表示注册响应中 id 和 merchantId 均不存在。
	ErrMissingResourceID = errors.New("resource id missing from response")
)

// AuthError 表示获取凭证失败，属于致命错误。
type AuthError struct {
	StatusCode int
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("authentication failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// ProvisionError 表示注册测试资源失败，属于致命错误。
type ProvisionError struct {
	StatusCode int
	Err        error
}

func (e *ProvisionError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("resource provisioning failed (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("resource provisioning failed: %v", e.Err)
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// IsFatal 报告 err 是否为初始化阶段的致命错误。
func IsFatal(err error) bool {
	var authErr *AuthError
	var provErr *ProvisionError
	return errors.As(err, &authErr) || errors.As(err, &provErr)
}
