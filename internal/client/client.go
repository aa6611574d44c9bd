// Package client 提供基于 fasthttp 的 JSON 请求客户端，所有调用都带单次超时。
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"
)

const (
	// DefaultTimeout 是单次请求的默认超时时间。
	DefaultTimeout = 10 * time.Second

	defaultMaxConnsPerHost = 1000
	defaultUserAgent       = "gateway-bench"
)

// ErrTimeout 表示请求在超时时间内没有完成。
var ErrTimeout = errors.New("request timed out")

// StatusError 表示服务端返回了不符合预期的状态码。
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, truncate(e.Body, 256))
}

// Response 是一次请求的结果，Body 已从 fasthttp 的对象池中拷贝出来。
type Response struct {
	StatusCode int
	Body       []byte
	Latency    time.Duration
}

// IsSuccess 检查状态码是否为 2xx。
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer 发送 JSON 请求，便于在测试中替换。
type Doer interface {
	PostJSON(ctx context.Context, url string, headers map[string]string, payload any) (*Response, error)
}

// Config 客户端配置。
type Config struct {
	Timeout         time.Duration
	MaxConnsPerHost int
}

// Client 是共享连接池的 fasthttp 客户端，可被多个 worker 并发使用。
type Client struct {
	client  *fasthttp.Client
	timeout time.Duration
}

// New 创建一个新的客户端。
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = defaultMaxConnsPerHost
	}

	return &Client{
		client: &fasthttp.Client{
			Name:                   defaultUserAgent,
			MaxConnsPerHost:        cfg.MaxConnsPerHost,
			MaxIdleConnDuration:    90 * time.Second,
			ReadTimeout:            cfg.Timeout,
			WriteTimeout:           cfg.Timeout,
			DisablePathNormalizing: true,
		},
		timeout: cfg.Timeout,
	}
}

// Timeout 返回单次请求超时时间。
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// PostJSON 发送 JSON POST 请求。
// 请求一旦发出就不会被取消，ctx 只在发送前检查，超时由 DoTimeout 保证。
func (c *Client) PostJSON(ctx context.Context, url string, headers map[string]string, payload any) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := sonic.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	req.SetBody(body)

	start := time.Now()
	err = c.client.DoTimeout(req, resp, c.timeout)
	latency := time.Since(start)
	if err != nil {
		if errors.Is(err, fasthttp.ErrTimeout) {
			return nil, fmt.Errorf("%w after %s", ErrTimeout, c.timeout)
		}
		return nil, fmt.Errorf("HTTP 请求失败: %w", err)
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), resp.Body()...),
		Latency:    latency,
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
