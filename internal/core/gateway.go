package core

import (
	"context"
	"fmt"
	"net/http"

	"gateway.example/filter-gateway/internal/chain"
	"gateway.example/filter-gateway/internal/circuitbreaker"
	"gateway.example/filter-gateway/internal/config"
	"gateway.example/filter-gateway/internal/container"
	"gateway.example/filter-gateway/internal/filter"
	"gateway.example/filter-gateway/internal/filter/builtin"
	"gateway.example/filter-gateway/internal/health"
	"gateway.example/filter-gateway/internal/loadbalancer"
	"gateway.example/filter-gateway/pkg/logger"
)

// Gateway 是网关核心引擎：请求经路由匹配后交给按注册信息装配的
// 过滤器链，链放行后由反向代理转发到负载均衡选出的后端实例。
type Gateway struct {
	cfg           *config.Config
	container     *container.Container
	chains        *chain.Manager
	router        *Router
	proxy         *Proxy
	lbFactory     *loadbalancer.Factory
	healthChecker *health.HealthChecker
	breakers      circuitbreaker.Service
	log           logger.Logger
}

// NewGateway 创建网关实例并初始化所有组件
func NewGateway(cfg *config.Config, log logger.Logger) (*Gateway, error) {
	ctx := context.Background()

	// 1. 负载均衡器与健康检查
	lbFactory := loadbalancer.NewFactory()
	healthChecker := health.NewHealthChecker(cfg.HealthCheck.Timeout.Std(), cfg.HealthCheck.Interval.Std(), log)

	for _, svcCfg := range cfg.Services {
		lb := lbFactory.GetOrCreateLoadBalancer(svcCfg.Name, svcCfg.LoadBalancer)
		instanceURLs := make([]string, 0, len(svcCfg.Instances))
		for _, inst := range svcCfg.Instances {
			lb.RegisterInstance(svcCfg.Name, &loadbalancer.ServiceInstance{
				URL:    inst.URL,
				Weight: inst.Weight,
				Alive:  true, // 初始默认健康，之后由健康检查修正
			})
			instanceURLs = append(instanceURLs, inst.URL)
		}
		healthChecker.RegisterService(svcCfg.Name, instanceURLs, svcCfg.HealthCheckPath)
		log.Info(ctx, "[网关] 服务已注册",
			"service", svcCfg.Name, "instances", len(instanceURLs), "load_balancer", svcCfg.LoadBalancer)
	}

	// 实例健康状态翻转时联动负载均衡器的存活标记
	healthChecker.SetStatusCallback(func(serviceName, instanceURL string, healthy bool) {
		if lb, ok := lbFactory.Get(serviceName); ok {
			lb.SetInstanceAlive(serviceName, instanceURL, healthy)
		}
	})

	// 2. 熔断器服务，由熔断过滤器和代理共享
	breakers := circuitbreaker.NewService(
		cfg.CircuitBreaker.FailureThreshold,
		cfg.CircuitBreaker.SuccessThreshold,
		cfg.CircuitBreaker.ResetTimeout.Std(),
		log,
	)

	// 3. 过滤器容器：创建实例、写入注册信息、统一初始化
	c := container.New("gateway")
	deps := builtin.Deps{Log: log, Breakers: breakers}
	if err := registerFilters(ctx, c, cfg.Filters, deps, log); err != nil {
		return nil, err
	}
	if err := c.InitFilters(); err != nil {
		return nil, fmt.Errorf("初始化过滤器失败: %w", err)
	}

	// 4. 链管理器、路由器与转发代理
	chains := chain.NewManager(c, cfg.Server.ChainCacheTTL.Std(), log)
	router := NewRouter(cfg.Routes, log)
	proxy := NewProxy(lbFactory, breakers, log)

	// 全部组件就绪后才启动后台健康检查
	go healthChecker.Start()

	log.Info(ctx, "[网关] 初始化完成",
		"filters", len(c.FilterHolders()), "routes", len(cfg.Routes), "services", len(cfg.Services))

	return &Gateway{
		cfg:           cfg,
		container:     c,
		chains:        chains,
		router:        router,
		proxy:         proxy,
		lbFactory:     lbFactory,
		healthChecker: healthChecker,
		breakers:      breakers,
		log:           log,
	}, nil
}

// registerFilters 按配置创建过滤器并完成注册：整体写入初始化参数、
// 添加URL模式映射、设置异步标记。初始化统一由容器随后执行。
func registerFilters(ctx context.Context, c *container.Container, filterCfgs []config.FilterConfig, deps builtin.Deps, log logger.Logger) error {
	for _, fc := range filterCfgs {
		f, err := builtin.New(fc.Type, deps)
		if err != nil {
			return fmt.Errorf("创建过滤器 '%s' 失败: %w", fc.Name, err)
		}

		holder, err := c.AddFilter(fc.Name, f)
		if err != nil {
			return fmt.Errorf("注册过滤器 '%s' 失败: %w", fc.Name, err)
		}

		reg := holder.GetRegistration()

		// 返回的冲突名单是已被占用的参数名，不覆盖
		if conflicts := reg.SetInitParameters(fc.InitParams); len(conflicts) > 0 {
			log.Warn(ctx, "[网关] 部分初始化参数已存在，保留原值",
				"filter", fc.Name, "conflicts", conflicts)
		}

		// 未配置调度类型时，映射逻辑默认补充 REQUEST
		var dispatcherTypes []filter.DispatcherType
		for _, raw := range fc.DispatcherTypes {
			dt, err := filter.ParseDispatcherType(raw)
			if err != nil {
				return fmt.Errorf("过滤器 '%s' 的调度类型无效: %w", fc.Name, err)
			}
			dispatcherTypes = append(dispatcherTypes, dt)
		}

		if err := reg.AddMappingForURLPatterns(dispatcherTypes, fc.MatchAfter, fc.URLPatterns...); err != nil {
			return fmt.Errorf("过滤器 '%s' 的URL模式映射无效: %w", fc.Name, err)
		}

		reg.SetAsyncSupported(fc.AsyncSupported)
	}
	return nil
}

// ServeHTTP 网关请求处理入口
// 1. 路由匹配 → 2. 装配并执行过滤器链 → 3. 反向代理转发
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	route := g.router.FindRoute(r)
	if route == nil {
		g.log.Warn(ctx, "[网关] 未匹配到路由", "method", r.Method, "path", r.URL.Path)
		writeJSONError(w, http.StatusNotFound, "no route matched")
		return
	}

	service, ok := g.cfg.ServiceByName(route.ServiceName)
	if !ok {
		// 配置加载时已校验过引用，这里只是兜底
		g.log.Error(ctx, "[网关] 路由引用的服务未配置", "service", route.ServiceName)
		writeJSONError(w, http.StatusInternalServerError, "service not configured")
		return
	}

	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.proxy.Forward(w, r, service)
	})

	requestChain := g.chains.ChainFor(ctx, filter.DispatcherRequest, r.URL.Path, terminal)
	if err := requestChain.Execute(w, r); err != nil {
		g.log.Error(ctx, "[网关] 过滤器链执行失败", "path", r.URL.Path, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal gateway error")
	}
}

// Container 返回网关的过滤器容器，供管理端点读取注册信息。
func (g *Gateway) Container() *container.Container {
	return g.container
}

// Breakers 返回共享的熔断器服务。
func (g *Gateway) Breakers() circuitbreaker.Service {
	return g.breakers
}

// Health 返回健康检查器。
func (g *Gateway) Health() *health.HealthChecker {
	return g.healthChecker
}

// Shutdown 停止网关持有的后台组件。
func (g *Gateway) Shutdown() {
	ctx := context.Background()
	g.log.Info(ctx, "[网关] 正在关闭")

	g.healthChecker.Shutdown()
	g.chains.Close()
	for _, h := range g.container.FilterHolders() {
		closer, ok := h.GetFilter().(interface{ Close() error })
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			g.log.Error(ctx, "[网关] 关闭过滤器失败", "filter", h.GetName(), "error", err)
		}
	}
	if err := g.breakers.Close(); err != nil {
		g.log.Error(ctx, "[网关] 关闭熔断器服务失败", "error", err)
	}

	g.log.Info(ctx, "[网关] 已关闭")
}
