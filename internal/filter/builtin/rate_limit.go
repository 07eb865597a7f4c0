package builtin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"gateway.example/filter-gateway/internal/filter"
	"gateway.example/filter-gateway/internal/limiter"
	"gateway.example/filter-gateway/pkg/logger"
)

// 限流参数默认值
const (
	defaultCapacity   = 100
	defaultRefillRate = 10

	cleanupInterval = time.Minute
	bucketMaxIdle   = 10 * time.Minute
)

// RateLimitFilter 基于令牌桶对请求限流。
//
// 初始化参数：
//   - strategy: 可选，限流标识策略(ip/path/global)，默认 ip
//   - capacity: 可选，令牌桶容量，默认 100
//   - refill_rate: 可选，每秒补充令牌数，默认 10
type RateLimitFilter struct {
	log      logger.Logger
	limiter  limiter.Limiter
	identify limiter.IdentifierFunc
	bucket   *limiter.MemoryTokenBucket
}

// NewRateLimitFilter 创建未初始化的限流过滤器
func NewRateLimitFilter(log logger.Logger) *RateLimitFilter {
	return &RateLimitFilter{log: log}
}

// Name 返回过滤器实现名称
func (f *RateLimitFilter) Name() string {
	return "rate-limit"
}

// Init 根据初始化参数构建令牌桶和标识提取函数
func (f *RateLimitFilter) Init(cfg *filter.Config) error {
	strategy := cfg.GetInitParameter("strategy")
	if strategy == "" {
		strategy = "ip"
	}
	identify, err := limiter.GetIdentifierFunc(strategy)
	if err != nil {
		return err
	}

	capacity, err := positiveIntParam(cfg, "capacity", defaultCapacity)
	if err != nil {
		return err
	}
	refillRate, err := positiveIntParam(cfg, "refill_rate", defaultRefillRate)
	if err != nil {
		return err
	}

	bucket := limiter.NewMemoryTokenBucket(capacity, refillRate, cfg.GetFilterName())
	bucket.StartCleanup(cleanupInterval, bucketMaxIdle)

	f.bucket = bucket
	f.limiter = bucket
	f.identify = identify
	return nil
}

// Close 停止令牌桶的后台清理协程。
func (f *RateLimitFilter) Close() error {
	if f.bucket != nil {
		f.bucket.Stop()
	}
	return nil
}

// Execute 对请求限流，超限时响应429并终止过滤器链
func (f *RateLimitFilter) Execute(w http.ResponseWriter, r *http.Request) (bool, error) {
	ctx := r.Context()

	identifier := f.identify(r)
	if !f.limiter.Allow(ctx, identifier) {
		f.log.Warn(ctx, "[限流] 请求被拒绝", "identifier", identifier, "path", r.URL.Path)
		writeJSONError(w, http.StatusTooManyRequests, "too many requests")
		return false, nil
	}

	return true, nil
}

// positiveIntParam 解析正整数初始化参数，缺省时返回fallback
func positiveIntParam(cfg *filter.Config, name string, fallback int) (int, error) {
	raw := cfg.GetInitParameter(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("初始化参数 %s 的值 '%s' 不是整数: %w", name, raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("初始化参数 %s 必须为正整数，当前为 %d", name, v)
	}
	return v, nil
}
