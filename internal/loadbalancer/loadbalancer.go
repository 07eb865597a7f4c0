// Package loadbalancer 提供上游服务实例的负载均衡策略。
package loadbalancer

import (
	"errors"
	"sync"
)

var (
	// ErrNoInstances 表示服务没有注册任何实例
	ErrNoInstances = errors.New("no instances available")
	// ErrNoHealthyInstances 表示服务没有健康的实例
	ErrNoHealthyInstances = errors.New("no healthy instances available")
)

// ServiceInstance 表示一个服务实例
type ServiceInstance struct {
	URL         string
	Weight      int
	Alive       bool
	Connections int // 用于最少连接数算法
}

// LoadBalancer 负载均衡器接口
type LoadBalancer interface {
	GetNextInstance(serviceName string) (*ServiceInstance, error)
	RegisterInstance(serviceName string, instance *ServiceInstance)
	GetAllInstances(serviceName string) []*ServiceInstance
	// SetInstanceAlive 更新实例的存活标记，由健康检查联动调用
	SetInstanceAlive(serviceName, instanceURL string, alive bool)
}

// healthyOf 过滤出健康的实例。
func healthyOf(instances []*ServiceInstance) []*ServiceInstance {
	healthy := make([]*ServiceInstance, 0, len(instances))
	for _, instance := range instances {
		if instance.Alive {
			healthy = append(healthy, instance)
		}
	}
	return healthy
}

// setAlive 更新列表中指定URL实例的存活标记，调用方负责加锁。
func setAlive(instances []*ServiceInstance, instanceURL string, alive bool) {
	for _, instance := range instances {
		if instance.URL == instanceURL {
			instance.Alive = alive
			return
		}
	}
}

// Factory 按服务名持有负载均衡器，同一服务复用同一个实例。
type Factory struct {
	balancers map[string]LoadBalancer
	mutex     sync.RWMutex
}

// NewFactory 创建负载均衡器工厂。
func NewFactory() *Factory {
	return &Factory{
		balancers: make(map[string]LoadBalancer),
	}
}

// Get 返回服务已有的负载均衡器，不会隐式创建。
func (f *Factory) Get(serviceName string) (LoadBalancer, bool) {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	lb, exists := f.balancers[serviceName]
	return lb, exists
}

// GetOrCreateLoadBalancer 获取服务的负载均衡器，不存在时按算法名称
// 创建，未知算法回退为轮询。
func (f *Factory) GetOrCreateLoadBalancer(serviceName, algorithm string) LoadBalancer {
	f.mutex.RLock()
	if lb, exists := f.balancers[serviceName]; exists {
		f.mutex.RUnlock()
		return lb
	}
	f.mutex.RUnlock()

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// 再次检查，防止其他协程已经创建
	if lb, exists := f.balancers[serviceName]; exists {
		return lb
	}

	var lb LoadBalancer
	switch algorithm {
	case "round_robin":
		lb = NewRoundRobinBalancer(serviceName)
	case "weighted_round_robin":
		lb = NewWeightedRoundRobinBalancer(serviceName)
	case "least_connections":
		lb = NewLeastConnectionsBalancer(serviceName)
	default:
		lb = NewRoundRobinBalancer(serviceName)
	}

	f.balancers[serviceName] = lb
	return lb
}
