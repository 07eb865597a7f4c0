package limiter

import (
	"context"
	"sync"
	"time"
)

// bucket 记录单个标识符的令牌状态
type bucket struct {
	tokens    int
	lastCheck time.Time
}

// MemoryTokenBucket 是基于内存的令牌桶限流器，每个标识符一个桶。
type MemoryTokenBucket struct {
	name       string
	capacity   int
	refillRate int
	buckets    map[string]*bucket
	mu         sync.Mutex
	stopChan   chan struct{}
}

// NewMemoryTokenBucket 创建内存令牌桶，capacity 是桶容量，
// refillRate 是每秒补充的令牌数。
func NewMemoryTokenBucket(capacity, refillRate int, name string) *MemoryTokenBucket {
	return &MemoryTokenBucket{
		name:       name,
		capacity:   capacity,
		refillRate: refillRate,
		buckets:    make(map[string]*bucket),
		stopChan:   make(chan struct{}),
	}
}

// Allow 判断标识符的本次请求是否放行：按流逝时间补充令牌，
// 再尝试消耗一枚。
func (b *MemoryTokenBucket) Allow(ctx context.Context, identifier string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	currentBucket, ok := b.buckets[identifier]
	if !ok {
		// 首次访问，创建一个满的桶
		currentBucket = &bucket{
			tokens:    b.capacity,
			lastCheck: time.Now(),
		}
		b.buckets[identifier] = currentBucket
	}

	// 补充令牌
	now := time.Now()
	elapsed := now.Sub(currentBucket.lastCheck)
	refillCount := int(elapsed.Seconds() * float64(b.refillRate))
	if refillCount > 0 {
		currentBucket.tokens += refillCount
		currentBucket.lastCheck = now
	}
	if currentBucket.tokens > b.capacity {
		currentBucket.tokens = b.capacity
	}

	// 检查并消耗令牌
	if currentBucket.tokens > 0 {
		currentBucket.tokens--
		return true
	}

	return false
}

// Name 返回限流器的名称
func (b *MemoryTokenBucket) Name() string {
	return b.name
}

// StartCleanup 启动后台清理协程，按 interval 周期移除超过 maxIdle
// 未活动的桶。闲置的桶在下次访问时重新按满桶创建。
func (b *MemoryTokenBucket) StartCleanup(interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				b.removeIdle(maxIdle)
			case <-b.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (b *MemoryTokenBucket) removeIdle(maxIdle time.Duration) {
	cutoff := time.Now().Add(-maxIdle)

	b.mu.Lock()
	defer b.mu.Unlock()
	for identifier, bk := range b.buckets {
		if bk.lastCheck.Before(cutoff) {
			delete(b.buckets, identifier)
		}
	}
}

// Stop 停止后台清理协程。
func (b *MemoryTokenBucket) Stop() {
	close(b.stopChan)
}
