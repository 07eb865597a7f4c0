package core

import (
	"encoding/json"
	"errors"
	"net/http"

	"gateway.example/filter-gateway/internal/circuitbreaker"
	"gateway.example/filter-gateway/internal/container"
	"gateway.example/filter-gateway/internal/health"
	"gateway.example/filter-gateway/pkg/logger"
)

// AdminHandler 暴露网关自身的管理与观测端点。
type AdminHandler struct {
	container *container.Container
	breakers  circuitbreaker.Service
	health    *health.HealthChecker
	log       logger.Logger
}

// NewAdminHandler 创建管理端点处理器
func NewAdminHandler(c *container.Container, breakers circuitbreaker.Service, h *health.HealthChecker, log logger.Logger) *AdminHandler {
	return &AdminHandler{
		container: c,
		breakers:  breakers,
		health:    h,
		log:       log,
	}
}

// Register 将管理端点挂载到mux
func (a *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/admin/filters", a.Filters)
	mux.HandleFunc("/admin/circuit-breakers", a.CircuitBreakers)
	mux.HandleFunc("/admin/circuit-breakers/reset", a.ResetCircuitBreaker)
	mux.HandleFunc("/healthz", a.Healthz)
}

// filterInfo 过滤器注册信息的对外展示结构
type filterInfo struct {
	Name            string   `json:"name"`
	ClassName       string   `json:"class_name"`
	Initialized     bool     `json:"initialized"`
	AsyncSupported  bool     `json:"async_supported"`
	URLPatterns     []string `json:"url_patterns"`
	DispatcherTypes []string `json:"dispatcher_types"`
	InitParamNames  []string `json:"init_param_names"`
}

// Filters 列出容器中全部过滤器的注册信息。
// 初始化参数只暴露名称，参数值可能包含密钥。
func (a *AdminHandler) Filters(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	holders := a.container.FilterHolders()
	infos := make([]filterInfo, 0, len(holders))
	for _, h := range holders {
		reg := h.GetRegistration()

		dispatcherTypes := reg.GetDispatcherTypes()
		typeNames := make([]string, 0, len(dispatcherTypes))
		for _, dt := range dispatcherTypes {
			typeNames = append(typeNames, dt.String())
		}

		infos = append(infos, filterInfo{
			Name:            reg.GetName(),
			ClassName:       reg.GetClassName(),
			Initialized:     h.IsInitialized(),
			AsyncSupported:  reg.IsAsyncSupported(),
			URLPatterns:     reg.GetURLPatternMappings(),
			DispatcherTypes: typeNames,
			InitParamNames:  h.GetFilterConfig().GetInitParameterNames(),
		})
	}

	writeJSON(w, http.StatusOK, infos)
}

// CircuitBreakers 返回所有服务的熔断器状态
func (a *AdminHandler) CircuitBreakers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, a.breakers.GetAllState())
}

// ResetCircuitBreaker 重置指定服务的熔断器
func (a *AdminHandler) ResetCircuitBreaker(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	serviceName := r.URL.Query().Get("service")
	if serviceName == "" {
		writeJSONError(w, http.StatusBadRequest, "query parameter 'service' is required")
		return
	}

	if err := a.breakers.Reset(r.Context(), serviceName); err != nil {
		if errors.Is(err, circuitbreaker.ErrServiceNotFound) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		a.log.Error(r.Context(), "[管理端点] 重置熔断器失败", "service", serviceName, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.log.Info(r.Context(), "[管理端点] 熔断器已重置", "service", serviceName)
	writeJSON(w, http.StatusOK, map[string]string{"service": serviceName, "state": "closed"})
}

// Healthz 返回所有上游服务实例的健康状态
func (a *AdminHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.health.GetAllStatuses())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
