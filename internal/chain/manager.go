package chain

import (
	"context"
	"net/http"
	"time"

	"gateway.example/filter-gateway/internal/container"
	"gateway.example/filter-gateway/internal/filter"
	"gateway.example/filter-gateway/pkg/logger"
)

// Manager 按 (调度类型, 请求路径) 从容器装配过滤器链，装配结果缓存
// 复用。容器在启动阶段完成注册和初始化，之后注册信息只读，装配时
// 直接读取注册视图。
type Manager struct {
	container *container.Container
	cache     *Cache
	log       logger.Logger
}

// NewManager 创建链管理器。cacheTTL 是装配结果的缓存有效期，
// 零值表示装配结果永不过期；有效期非零时按同样的周期后台清理。
func NewManager(c *container.Container, cacheTTL time.Duration, log logger.Logger) *Manager {
	m := &Manager{
		container: c,
		cache:     NewCache(cacheTTL),
		log:       log,
	}
	if cacheTTL > 0 {
		m.cache.StartCleanup(cacheTTL)
	}
	return m
}

// ChainFor 返回调度类型和请求路径对应的过滤器链。命中注册的条件：
// 注册的调度类型包含 dt，且任一 URL 模式命中路径。
func (m *Manager) ChainFor(ctx context.Context, dt filter.DispatcherType, path string, terminal http.Handler) *Chain {
	key := dt.String() + ":" + path
	if cached, ok := m.cache.Get(key); ok {
		return cached
	}

	holders := make([]*filter.Holder, 0)
	for _, h := range m.container.FilterHolders() {
		if matchesRegistration(h.GetRegistration(), dt, path) {
			holders = append(holders, h)
		}
	}

	assembled := NewChain(holders, terminal)
	m.cache.Set(key, assembled)
	m.log.Debug(ctx, "[链管理器] 装配过滤器链", "key", key, "filters", assembled.FilterNames())
	return assembled
}

// matchesRegistration 判断一条注册是否命中指定的调度类型和路径。
func matchesRegistration(reg *filter.Registration, dt filter.DispatcherType, path string) bool {
	matched := false
	for _, t := range reg.GetDispatcherTypes() {
		if t == dt {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, pattern := range reg.GetURLPatternMappings() {
		if MatchURLPattern(pattern, path) {
			return true
		}
	}
	return false
}

// Close 停止缓存的后台清理。
func (m *Manager) Close() {
	m.cache.Stop()
}
