package loadbalancer

import "sync"

// RoundRobinBalancer 在健康实例之间轮询。
type RoundRobinBalancer struct {
	serviceName string
	instances   []*ServiceInstance
	mutex       sync.RWMutex
	index       int
}

func NewRoundRobinBalancer(serviceName string) *RoundRobinBalancer {
	return &RoundRobinBalancer{
		serviceName: serviceName,
	}
}

func (r *RoundRobinBalancer) RegisterInstance(serviceName string, instance *ServiceInstance) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.instances = append(r.instances, instance)
}

func (r *RoundRobinBalancer) GetNextInstance(serviceName string) (*ServiceInstance, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if len(r.instances) == 0 {
		return nil, ErrNoInstances
	}

	healthy := healthyOf(r.instances)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyInstances
	}

	// 轮询选择下一个实例
	instance := healthy[r.index%len(healthy)]
	r.index++

	return instance, nil
}

func (r *RoundRobinBalancer) GetAllInstances(serviceName string) []*ServiceInstance {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return healthyOf(r.instances)
}

func (r *RoundRobinBalancer) SetInstanceAlive(serviceName, instanceURL string, alive bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	setAlive(r.instances, instanceURL, alive)
}
