// Package circuitbreaker 实现按服务名隔离的熔断器。
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"gateway.example/filter-gateway/pkg/logger"
)

// 全局错误定义
var (
	// ErrOpenState 熔断器处于打开状态，请求被拒绝
	ErrOpenState = errors.New("circuit breaker is open")
	// ErrServiceNotFound 服务尚未初始化熔断器
	ErrServiceNotFound = errors.New("service not found in circuit breaker")
)

// State 熔断器状态枚举
type State int

const (
	StateClosed   State = iota // 关闭状态：允许请求，记录失败数
	StateOpen                  // 打开状态：拒绝请求，超时后转入半开
	StateHalfOpen              // 半开状态：放行试探请求，成功则关闭，失败则重新打开
)

// String 将状态转为可读字符串
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitState 熔断器状态的对外展示结构，用于监控接口
type CircuitState struct {
	ServiceName      string    `json:"service_name"`
	State            string    `json:"state"`
	FailureCount     int       `json:"failure_count"`
	SuccessCount     int       `json:"success_count"`
	LastOpenTime     time.Time `json:"last_open_time,omitempty"`
	FailureThreshold int       `json:"failure_threshold"`
	SuccessThreshold int       `json:"success_threshold"`
	ResetTimeout     string    `json:"reset_timeout"`
}

// Service 熔断器服务接口
type Service interface {
	// CheckCircuit 检查指定服务当前是否允许请求
	CheckCircuit(ctx context.Context, serviceName string) (bool, error)
	// RecordResult 记录指定服务一次请求的成败
	RecordResult(ctx context.Context, serviceName string, success bool)
	// GetAllState 返回所有服务的熔断器状态
	GetAllState() map[string]CircuitState
	// Reset 重置指定服务的熔断器
	Reset(ctx context.Context, serviceName string) error
	// Close 优雅关闭服务
	Close() error
}

// CircuitBreaker 单个服务的熔断器实例
type CircuitBreaker struct {
	mu           sync.Mutex
	state        State
	failureCount int
	successCount int
	lastOpenTime time.Time
}

// service 是 Service 接口的实现，管理多个服务的熔断器。
type service struct {
	mu               sync.RWMutex
	circuitBreakers  map[string]*CircuitBreaker
	failureThreshold int
	successThreshold int
	resetTimeout     time.Duration
	log              logger.Logger
}

// NewService 创建熔断器服务，非法阈值替换为默认值。
func NewService(failureThreshold, successThreshold int, resetTimeout time.Duration, log logger.Logger) Service {
	if failureThreshold <= 0 {
		failureThreshold = 5
	}
	if successThreshold <= 0 {
		successThreshold = 2
	}
	if resetTimeout <= 0 {
		resetTimeout = 1 * time.Minute
	}

	return &service{
		circuitBreakers:  make(map[string]*CircuitBreaker),
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		resetTimeout:     resetTimeout,
		log:              log,
	}
}

// CheckCircuit 检查指定服务的熔断器状态，返回是否允许请求。
func (s *service) CheckCircuit(ctx context.Context, serviceName string) (bool, error) {
	s.mu.Lock()
	cb, exists := s.circuitBreakers[serviceName]
	if !exists {
		cb = &CircuitBreaker{state: StateClosed}
		s.circuitBreakers[serviceName] = cb
		s.log.Info(ctx, "[熔断器] 初始化熔断器", "service", serviceName)
	}
	s.mu.Unlock()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		// 超过重置超时后转入半开，放行试探请求
		if time.Since(cb.lastOpenTime) > s.resetTimeout {
			cb.state = StateHalfOpen
			cb.failureCount = 0
			cb.successCount = 0
			s.log.Info(ctx, "[熔断器] 状态变更 open -> half-open", "service", serviceName)
			return true, nil
		}
		return false, ErrOpenState

	case StateHalfOpen:
		return true, nil

	case StateClosed:
		return true, nil

	default:
		// 未知状态降级为放行
		s.log.Warn(ctx, "[熔断器] 状态未知，默认放行", "service", serviceName)
		return true, nil
	}
}

// RecordResult 记录指定服务的请求结果，推动熔断器状态迁移。
func (s *service) RecordResult(ctx context.Context, serviceName string, success bool) {
	s.mu.RLock()
	cb, exists := s.circuitBreakers[serviceName]
	s.mu.RUnlock()

	if !exists {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if success {
		cb.successCount++

		// 半开状态下成功数达到阈值则关闭
		if cb.state == StateHalfOpen && cb.successCount >= s.successThreshold {
			cb.state = StateClosed
			cb.failureCount = 0
			cb.successCount = 0
			s.log.Info(ctx, "[熔断器] 状态变更 half-open -> closed", "service", serviceName)
		}
		return
	}

	cb.failureCount++

	// 关闭状态下失败数达到阈值则打开
	if cb.state == StateClosed && cb.failureCount >= s.failureThreshold {
		cb.state = StateOpen
		cb.lastOpenTime = time.Now()
		s.log.Warn(ctx, "[熔断器] 状态变更 closed -> open", "service", serviceName, "failures", cb.failureCount)
	}

	// 半开状态下任何失败都立即重新打开
	if cb.state == StateHalfOpen {
		cb.state = StateOpen
		cb.lastOpenTime = time.Now()
		s.log.Warn(ctx, "[熔断器] 状态变更 half-open -> open", "service", serviceName)
	}
}

// GetAllState 返回所有服务的熔断器状态快照。
func (s *service) GetAllState() map[string]CircuitState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]CircuitState, len(s.circuitBreakers))
	for serviceName, cb := range s.circuitBreakers {
		cb.mu.Lock()
		result[serviceName] = CircuitState{
			ServiceName:      serviceName,
			State:            cb.state.String(),
			FailureCount:     cb.failureCount,
			SuccessCount:     cb.successCount,
			LastOpenTime:     cb.lastOpenTime,
			FailureThreshold: s.failureThreshold,
			SuccessThreshold: s.successThreshold,
			ResetTimeout:     s.resetTimeout.String(),
		}
		cb.mu.Unlock()
	}
	return result
}

// Reset 重置指定服务的熔断器，状态归位，计数清零。
func (s *service) Reset(ctx context.Context, serviceName string) error {
	s.mu.RLock()
	cb, exists := s.circuitBreakers[serviceName]
	s.mu.RUnlock()

	if !exists {
		return ErrServiceNotFound
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failureCount = 0
	cb.successCount = 0
	s.log.Info(ctx, "[熔断器] 已重置", "service", serviceName)
	return nil
}

// Close 优雅关闭熔断器服务。当前没有后台任务，保留扩展点。
func (s *service) Close() error {
	return nil
}
