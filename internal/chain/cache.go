package chain

import (
	"sync"
	"time"
)

// cacheItem 缓存的链和它的过期时间，expiresAt 为零值表示永不过期。
type cacheItem struct {
	chain     *Chain
	expiresAt time.Time
}

// Cache 是链装配结果的内存缓存，读写锁保护，支持按固定间隔清理
// 过期条目。
type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]cacheItem
	stop  chan struct{}
}

// NewCache 创建缓存，ttl 为条目有效期，零值表示条目永不过期。
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
		stop:  make(chan struct{}),
	}
}

// Get 返回缓存的链，未命中或已过期返回 false。
func (c *Cache) Get(key string) (*Chain, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}
	if !item.expiresAt.IsZero() && time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.chain, true
}

// Set 写入缓存条目，覆盖同键的旧值。
func (c *Cache) Set(key string, chain *Chain) {
	item := cacheItem{chain: chain}
	if c.ttl > 0 {
		item.expiresAt = time.Now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[key] = item
	c.mu.Unlock()
}

// Len 返回当前条目数，包含已过期但尚未清理的条目。
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// StartCleanup 启动后台清理协程，按 interval 周期移除过期条目。
func (c *Cache) StartCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				c.removeExpired()
			case <-c.stop:
				ticker.Stop()
				return
			}
		}
	}()
}

func (c *Cache) removeExpired() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for key, item := range c.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}
}

// Stop 停止后台清理协程。
func (c *Cache) Stop() {
	close(c.stop)
}
