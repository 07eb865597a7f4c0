package loadbalancer

import "sync"

// WeightedRoundRobinBalancer 按实例权重轮询，权重越大被选中越频繁。
type WeightedRoundRobinBalancer struct {
	serviceName string
	instances   []*ServiceInstance
	mutex       sync.RWMutex
	current     int
}

func NewWeightedRoundRobinBalancer(serviceName string) *WeightedRoundRobinBalancer {
	return &WeightedRoundRobinBalancer{
		serviceName: serviceName,
	}
}

func (w *WeightedRoundRobinBalancer) RegisterInstance(serviceName string, instance *ServiceInstance) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	w.instances = append(w.instances, instance)
}

func (w *WeightedRoundRobinBalancer) GetNextInstance(serviceName string) (*ServiceInstance, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	if len(w.instances) == 0 {
		return nil, ErrNoInstances
	}

	healthy := healthyOf(w.instances)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyInstances
	}

	totalWeight := 0
	for _, instance := range healthy {
		totalWeight += instance.Weight
	}

	// 总权重为 0 时回退到简单轮询
	if totalWeight == 0 {
		instance := healthy[w.current%len(healthy)]
		w.current++
		return instance, nil
	}

	// 加权轮询
	target := w.current % totalWeight
	selected := healthy[0]
	cumulativeWeight := 0

	for _, instance := range healthy {
		cumulativeWeight += instance.Weight
		if target < cumulativeWeight {
			selected = instance
			break
		}
	}

	w.current++
	return selected, nil
}

func (w *WeightedRoundRobinBalancer) GetAllInstances(serviceName string) []*ServiceInstance {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	return healthyOf(w.instances)
}

func (w *WeightedRoundRobinBalancer) SetInstanceAlive(serviceName, instanceURL string, alive bool) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	setAlive(w.instances, instanceURL, alive)
}
