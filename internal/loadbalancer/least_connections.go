package loadbalancer

import "sync"

// LeastConnectionsBalancer 选择当前连接数最少的健康实例。
type LeastConnectionsBalancer struct {
	serviceName string
	instances   []*ServiceInstance
	mutex       sync.RWMutex
}

func NewLeastConnectionsBalancer(serviceName string) *LeastConnectionsBalancer {
	return &LeastConnectionsBalancer{
		serviceName: serviceName,
	}
}

func (l *LeastConnectionsBalancer) RegisterInstance(serviceName string, instance *ServiceInstance) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.instances = append(l.instances, instance)
}

func (l *LeastConnectionsBalancer) GetNextInstance(serviceName string) (*ServiceInstance, error) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if len(l.instances) == 0 {
		return nil, ErrNoInstances
	}

	healthy := healthyOf(l.instances)
	if len(healthy) == 0 {
		return nil, ErrNoHealthyInstances
	}

	selected := healthy[0]
	for _, instance := range healthy {
		if instance.Connections < selected.Connections {
			selected = instance
		}
	}

	// 选中即计一个连接，请求完成后由 ReleaseConnection 归还
	selected.Connections++
	return selected, nil
}

func (l *LeastConnectionsBalancer) GetAllInstances(serviceName string) []*ServiceInstance {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	return healthyOf(l.instances)
}

func (l *LeastConnectionsBalancer) SetInstanceAlive(serviceName, instanceURL string, alive bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	setAlive(l.instances, instanceURL, alive)
}

// ReleaseConnection 归还连接计数，在请求完成后调用。
func (l *LeastConnectionsBalancer) ReleaseConnection(serviceName, instanceURL string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	for _, instance := range l.instances {
		if instance.URL == instanceURL {
			instance.Connections--
			if instance.Connections < 0 {
				instance.Connections = 0
			}
			break
		}
	}
}
