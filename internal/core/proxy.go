package core

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"gateway.example/filter-gateway/internal/circuitbreaker"
	"gateway.example/filter-gateway/internal/config"
	"gateway.example/filter-gateway/internal/loadbalancer"
	"gateway.example/filter-gateway/pkg/logger"
)

// Proxy 负责将请求转发到负载均衡选出的后端实例，
// 并把每次转发的成败上报给熔断器。
type Proxy struct {
	lbFactory *loadbalancer.Factory
	breakers  circuitbreaker.Service
	log       logger.Logger
}

// NewProxy 创建一个新的 Proxy 实例。
func NewProxy(lbFactory *loadbalancer.Factory, breakers circuitbreaker.Service, log logger.Logger) *Proxy {
	return &Proxy{
		lbFactory: lbFactory,
		breakers:  breakers,
		log:       log,
	}
}

// statusRecorder 记录写给客户端的状态码，用于判定转发结果
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.code = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) status() int {
	if s.code == 0 {
		return http.StatusOK
	}
	return s.code
}

// Forward 执行反向代理转发。
func (p *Proxy) Forward(w http.ResponseWriter, r *http.Request, service *config.ServiceConfig) {
	ctx := r.Context()

	lb := p.lbFactory.GetOrCreateLoadBalancer(service.Name, service.LoadBalancer)
	instance, err := lb.GetNextInstance(service.Name)
	if err != nil {
		p.log.Warn(ctx, "[代理] 无可用实例", "service", service.Name, "error", err)
		writeJSONError(w, http.StatusServiceUnavailable, "no upstream instance available")
		return
	}

	target, err := url.Parse(instance.URL)
	if err != nil {
		p.log.Error(ctx, "[代理] 实例地址无法解析", "service", service.Name, "instance", instance.URL, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "invalid upstream address")
		return
	}

	// 最少连接数算法需要在请求完成后归还连接
	if releaser, ok := lb.(interface{ ReleaseConnection(string, string) }); ok {
		defer releaser.ReleaseConnection(service.Name, instance.URL)
	}

	transportFailed := false
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		transportFailed = true
		p.log.Error(r.Context(), "[代理] 转发失败",
			"service", service.Name, "instance", instance.URL, "error", err)
		writeJSONError(w, http.StatusBadGateway, "bad gateway")
	}

	recorder := &statusRecorder{ResponseWriter: w}
	start := time.Now()
	proxy.ServeHTTP(recorder, r)

	// 传输失败或上游5xx都计为一次失败
	success := !transportFailed && recorder.status() < http.StatusInternalServerError
	if p.breakers != nil {
		p.breakers.RecordResult(ctx, service.Name, success)
	}

	logger.RecordMetrics(ctx, p.log, "proxy_forward", time.Since(start).Milliseconds(), success,
		"service", service.Name, "instance", instance.URL, "status", recorder.status())
}
