// Package builtin 提供网关自带的过滤器实现：JWT认证、限流和熔断。
// 过滤器的行为通过注册时的初始化参数配置。
package builtin

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gateway.example/filter-gateway/internal/circuitbreaker"
	"gateway.example/filter-gateway/internal/filter"
	"gateway.example/filter-gateway/pkg/logger"
)

// 内置过滤器类型名，对应配置文件中 filters[].type 字段
const (
	TypeJWTAuth        = "jwt_auth"
	TypeRateLimit      = "rate_limit"
	TypeCircuitBreaker = "circuit_breaker"
)

// Deps 是内置过滤器需要的共享组件
type Deps struct {
	Log      logger.Logger
	Breakers circuitbreaker.Service
}

// New 按类型名创建内置过滤器实例
func New(filterType string, deps Deps) (filter.Filter, error) {
	switch filterType {
	case TypeJWTAuth:
		return NewJWTAuthFilter(deps.Log), nil
	case TypeRateLimit:
		return NewRateLimitFilter(deps.Log), nil
	case TypeCircuitBreaker:
		return NewCircuitBreakerFilter(deps.Breakers, deps.Log), nil
	default:
		return nil, fmt.Errorf("未知的过滤器类型: '%s'", filterType)
	}
}

// writeJSONError 向客户端写入统一格式的JSON错误
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
