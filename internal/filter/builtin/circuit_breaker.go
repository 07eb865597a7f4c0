package builtin

import (
	"errors"
	"fmt"
	"net/http"

	"gateway.example/filter-gateway/internal/circuitbreaker"
	"gateway.example/filter-gateway/internal/filter"
	"gateway.example/filter-gateway/pkg/logger"
)

// CircuitBreakerFilter 在转发前检查目标服务的熔断器状态。
// 熔断器实例由网关共享，请求结果由转发层记录。
//
// 初始化参数：
//   - service: 必需，受保护的后端服务名称
type CircuitBreakerFilter struct {
	log      logger.Logger
	breakers circuitbreaker.Service
	service  string
}

// NewCircuitBreakerFilter 创建未初始化的熔断过滤器
func NewCircuitBreakerFilter(breakers circuitbreaker.Service, log logger.Logger) *CircuitBreakerFilter {
	return &CircuitBreakerFilter{breakers: breakers, log: log}
}

// Name 返回过滤器实现名称
func (f *CircuitBreakerFilter) Name() string {
	return "circuit-breaker"
}

// Init 读取受保护的服务名称
func (f *CircuitBreakerFilter) Init(cfg *filter.Config) error {
	if f.breakers == nil {
		return fmt.Errorf("过滤器 '%s' 未注入熔断器服务", cfg.GetFilterName())
	}
	service := cfg.GetInitParameter("service")
	if service == "" {
		return fmt.Errorf("过滤器 '%s' 缺少必需的初始化参数 service", cfg.GetFilterName())
	}
	f.service = service
	return nil
}

// Execute 检查熔断器状态，熔断打开时响应503并终止过滤器链
func (f *CircuitBreakerFilter) Execute(w http.ResponseWriter, r *http.Request) (bool, error) {
	ctx := r.Context()

	allowed, err := f.breakers.CheckCircuit(ctx, f.service)
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrOpenState) {
			f.log.Warn(ctx, "[熔断过滤器] 请求被熔断", "service", f.service, "path", r.URL.Path)
			w.Header().Set("Retry-After", "10")
			writeJSONError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
			return false, nil
		}
		return false, err
	}
	if !allowed {
		w.Header().Set("Retry-After", "10")
		writeJSONError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
		return false, nil
	}

	return true, nil
}
