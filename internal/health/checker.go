// Package health 周期性探测上游服务实例的健康端点。
package health

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gateway.example/filter-gateway/pkg/logger"
)

// StatusCallback 在实例健康状态变更时被调用。
type StatusCallback func(serviceName, instanceURL string, healthy bool)

// HealthChecker 负责监控所有上游服务实例的健康状况。
type HealthChecker struct {
	client      *http.Client
	services    sync.Map // serviceName -> *ServiceCheckInfo
	stopChan    chan struct{}
	checkTicker *time.Ticker
	log         logger.Logger
	onChange    StatusCallback
}

// ServiceCheckInfo 存储单个服务的健康检查信息。
type ServiceCheckInfo struct {
	Instances   []string
	HealthPath  string
	Status      map[string]bool // 实例 URL -> 是否健康
	statusMutex sync.RWMutex
}

// NewHealthChecker 创建健康检查器，timeout 是单次探测超时，
// interval 是检查周期，非法值替换为默认值。
func NewHealthChecker(timeout, interval time.Duration, log logger.Logger) *HealthChecker {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &HealthChecker{
		client: &http.Client{
			Timeout: timeout,
		},
		stopChan:    make(chan struct{}),
		checkTicker: time.NewTicker(interval),
		log:         log,
	}
}

// SetStatusCallback 注册状态变更回调，在探测到实例健康状态翻转时
// 调用，用于联动负载均衡器的存活标记。
func (h *HealthChecker) SetStatusCallback(cb StatusCallback) {
	h.onChange = cb
}

// RegisterService 注册一个服务及其全部实例，初始状态默认为健康。
func (h *HealthChecker) RegisterService(serviceName string, instances []string, healthPath string) {
	statusMap := make(map[string]bool)
	for _, instURL := range instances {
		statusMap[instURL] = true
	}

	h.services.Store(serviceName, &ServiceCheckInfo{
		Instances:  instances,
		HealthPath: healthPath,
		Status:     statusMap,
	})

	h.log.Info(context.Background(), "[健康检查] 服务已注册",
		"service", serviceName, "instances", len(instances), "health_path", healthPath)
}

// Start 启动周期性健康检查，阻塞直到 Shutdown 被调用，
// 通常在独立的 goroutine 中运行。
func (h *HealthChecker) Start() {
	h.log.Info(context.Background(), "[健康检查] 开始周期性检查")
	for {
		select {
		case <-h.checkTicker.C:
			h.runAllHealthChecks()
		case <-h.stopChan:
			h.checkTicker.Stop()
			h.log.Info(context.Background(), "[健康检查] 已停止")
			return
		}
	}
}

// Shutdown 停止健康检查器。
func (h *HealthChecker) Shutdown() {
	close(h.stopChan)
}

// runAllHealthChecks 并发检查所有已注册的服务。
func (h *HealthChecker) runAllHealthChecks() {
	ctx := context.Background()
	var wg sync.WaitGroup
	h.services.Range(func(key, value interface{}) bool {
		serviceName := key.(string)
		serviceInfo := value.(*ServiceCheckInfo)

		wg.Add(1)
		go func(name string, info *ServiceCheckInfo) {
			defer wg.Done()
			h.checkService(ctx, name, info)
		}(serviceName, serviceInfo)

		return true
	})
	wg.Wait()
}

// checkService 逐个探测服务的实例健康端点。
func (h *HealthChecker) checkService(ctx context.Context, serviceName string, info *ServiceCheckInfo) {
	for _, instURL := range info.Instances {
		checkURL := instURL + info.HealthPath
		resp, err := h.client.Get(checkURL)

		isHealthy := err == nil && resp.StatusCode == http.StatusOK
		if err == nil {
			resp.Body.Close()
		}

		h.updateInstanceStatus(ctx, serviceName, info, instURL, isHealthy)
	}
}

func (h *HealthChecker) updateInstanceStatus(ctx context.Context, serviceName string, info *ServiceCheckInfo, url string, isHealthy bool) {
	info.statusMutex.Lock()
	wasHealthy, exists := info.Status[url]
	changed := !exists || wasHealthy != isHealthy
	if changed {
		info.Status[url] = isHealthy
	}
	info.statusMutex.Unlock()

	if !changed {
		return
	}

	h.log.Info(ctx, "[健康检查] 实例状态变更",
		"service", serviceName, "instance", url, "healthy", isHealthy)
	if h.onChange != nil {
		h.onChange(serviceName, url, isHealthy)
	}
}

// IsInstanceHealthy 返回特定实例当前的健康状态。
func (h *HealthChecker) IsInstanceHealthy(serviceName, url string) bool {
	val, ok := h.services.Load(serviceName)
	if !ok {
		return false
	}
	info := val.(*ServiceCheckInfo)

	info.statusMutex.RLock()
	defer info.statusMutex.RUnlock()

	isHealthy, exists := info.Status[url]
	return exists && isHealthy
}

// GetAllStatuses 返回所有服务的健康状态，用于健康检查端点。
func (h *HealthChecker) GetAllStatuses() map[string]map[string]bool {
	statuses := make(map[string]map[string]bool)
	h.services.Range(func(key, value interface{}) bool {
		serviceName := key.(string)
		info := value.(*ServiceCheckInfo)

		info.statusMutex.RLock()
		instanceStatuses := make(map[string]bool, len(info.Status))
		for url, isHealthy := range info.Status {
			instanceStatuses[url] = isHealthy
		}
		info.statusMutex.RUnlock()

		statuses[serviceName] = instanceStatuses
		return true
	})
	return statuses
}

// GetServiceStatus 返回单个服务的健康状态，服务未注册时为 nil。
func (h *HealthChecker) GetServiceStatus(serviceName string) map[string]bool {
	val, ok := h.services.Load(serviceName)
	if !ok {
		return nil
	}
	info := val.(*ServiceCheckInfo)

	info.statusMutex.RLock()
	defer info.statusMutex.RUnlock()

	statuses := make(map[string]bool, len(info.Status))
	for url, isHealthy := range info.Status {
		statuses[url] = isHealthy
	}
	return statuses
}
