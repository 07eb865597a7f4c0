// Package core 组装网关：路由匹配、过滤器链调度和反向代理转发。
package core

import (
	"context"
	"net/http"
	"strings"

	"gateway.example/filter-gateway/internal/config"
	"gateway.example/filter-gateway/pkg/logger"
)

// Router 负责解析HTTP请求并找到匹配的路由配置。
type Router struct {
	routes []config.RouteConfig
	log    logger.Logger
}

// NewRouter 创建并初始化一个新的路由器实例
func NewRouter(routes []config.RouteConfig, log logger.Logger) *Router {
	log.Info(context.Background(), "[路由器] 路由规则已加载", "count", len(routes))
	return &Router{
		routes: routes,
		log:    log,
	}
}

// FindRoute 根据请求URL路径查找匹配的路由配置。
// 多条规则命中时返回前缀最长的一条，避免短前缀遮蔽长前缀。
func (ro *Router) FindRoute(r *http.Request) *config.RouteConfig {
	var best *config.RouteConfig
	for i := range ro.routes {
		route := &ro.routes[i]
		if !strings.HasPrefix(r.URL.Path, route.PathPrefix) {
			continue
		}
		if best == nil || len(route.PathPrefix) > len(best.PathPrefix) {
			best = route
		}
	}
	return best
}
