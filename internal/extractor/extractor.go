// Package extractor 从 JSON 响应体中提取字段：固定 JSONPath 提取和按顺序的字段回退。
package extractor

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/ohler55/ojg/jp"
)

var (
	// ErrNotFound 表示路径或字段不存在，或值为 null。
	ErrNotFound = errors.New("value not found")

	// ErrNotObject 表示目标值不是 JSON 对象。
	ErrNotObject = errors.New("value is not a JSON object")
)

// Parse 将响应体解析为通用 Go 值。
func Parse(body []byte) (any, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	var data any
	if err := sonic.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	return data, nil
}

// Path 是预编译的 JSONPath 表达式。
type Path struct {
	expr jp.Expr
	raw  string
}

// MustCompile 编译 JSONPath 表达式，失败时 panic，用于包级常量路径。
func MustCompile(expression string) Path {
	p, err := Compile(expression)
	if err != nil {
		panic(err)
	}
	return p
}

// Compile 编译 JSONPath 表达式。
func Compile(expression string) (Path, error) {
	expr, err := jp.ParseString(expression)
	if err != nil {
		return Path{}, fmt.Errorf("invalid JSONPath expression '%s': %w", expression, err)
	}
	return Path{expr: expr, raw: expression}, nil
}

// String 返回原始表达式。
func (p Path) String() string {
	return p.raw
}

// Get 返回路径的第一个非 null 匹配值。
func (p Path) Get(data any) (any, error) {
	for _, v := range p.expr.Get(data) {
		if v != nil {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", p.raw, ErrNotFound)
}

// GetString 返回路径处的非空字符串值。
func (p Path) GetString(data any) (string, error) {
	v, err := p.Get(data)
	if err != nil {
		return "", err
	}
	s, ok := Stringify(v)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: %w", p.raw, ErrNotFound)
	}
	return s, nil
}

// FirstPresent 按给定顺序依次查找字段，返回第一个存在且非 null 的值。
// 所有字段都缺失时返回 ("", false)。
func FirstPresent(obj map[string]any, fields ...string) (string, bool) {
	for _, field := range fields {
		v, exists := obj[field]
		if !exists || v == nil {
			continue
		}
		if s, ok := Stringify(v); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// AsObject 将值断言为 JSON 对象。
func AsObject(v any) (map[string]any, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// Stringify 将标量 JSON 值转换为字符串，数字使用规范十进制形式。
func Stringify(v any) (string, bool) {
	switch n := v.(type) {
	case string:
		return n, true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case int:
		return strconv.Itoa(n), true
	case bool:
		return strconv.FormatBool(n), true
	default:
		return "", false
	}
}
