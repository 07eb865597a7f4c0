// Package limiter 提供限流算法和请求标识提取工具。
package limiter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Limiter 是所有限流算法必须实现的接口。限流器在创建时就绑定了
// 自己的配置，Allow 只需要请求的标识符。
type Limiter interface {
	Allow(ctx context.Context, identifier string) bool
	Name() string
}

// IdentifierFunc 从 HTTP 请求中提取限流标识符。
type IdentifierFunc func(r *http.Request) string

// GetIdentifierFunc 根据策略名称返回对应的标识符提取函数。
func GetIdentifierFunc(strategy string) (IdentifierFunc, error) {
	switch strings.ToLower(strategy) {
	case "ip":
		return func(r *http.Request) string {
			// 优先取 X-Forwarded-For，适配代理场景
			ip := r.Header.Get("X-Forwarded-For")
			if ip == "" {
				ip = r.Header.Get("X-Real-Ip")
			}
			if ip == "" {
				// RemoteAddr 可能带端口，去掉
				ip = strings.Split(r.RemoteAddr, ":")[0]
			}
			return ip
		}, nil
	case "path":
		return func(r *http.Request) string {
			return r.URL.Path
		}, nil
	case "global":
		return func(r *http.Request) string {
			return "global"
		}, nil
	default:
		return nil, fmt.Errorf("不支持的限流策略: '%s'", strategy)
	}
}

// NoOpLimiter 是不限流的占位实现。
type NoOpLimiter struct{}

// Allow 总是返回 true。
func (l *NoOpLimiter) Allow(ctx context.Context, identifier string) bool {
	return true
}

// Name 返回此限流器的名称。
func (l *NoOpLimiter) Name() string {
	return "NoOpLimiter"
}
