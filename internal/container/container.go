// Package container 实现过滤器的所属管道上下文：按注册顺序持有
// 过滤器记录，维护名称索引和上下文属性。注册核心自身不做并发控制，
// 注册、初始化和查询的并发安全由容器的锁统一保证。
package container

import (
	"errors"
	"fmt"
	"sync"

	"gateway.example/filter-gateway/internal/filter"
)

var (
	// ErrFilterExists 表示同名过滤器已经注册
	ErrFilterExists = errors.New("filter already registered")
	// ErrFilterNotFound 表示指定名称的过滤器未注册
	ErrFilterNotFound = errors.New("filter not found")
)

// Container 是过滤器记录的所属上下文，实现 filter.PipelineContext。
type Container struct {
	name    string
	mu      sync.RWMutex
	holders []*filter.Holder
	byName  map[string]*filter.Holder
	attrs   map[string]any
}

// New 创建一个指定名称的空容器。
func New(name string) *Container {
	return &Container{
		name:   name,
		byName: make(map[string]*filter.Holder),
		attrs:  make(map[string]any),
	}
}

// Name 返回容器名称。
func (c *Container) Name() string {
	return c.name
}

// Attribute 返回上下文属性，不存在时为 nil。
func (c *Container) Attribute(key string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.attrs[key]
}

// SetAttribute 设置上下文属性。
func (c *Container) SetAttribute(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attrs[key] = value
}

// AddFilter 以指定名称注册过滤器并返回新建的记录，
// 同名重复注册返回 ErrFilterExists。
func (c *Container) AddFilter(name string, f filter.Filter) (*filter.Holder, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrFilterExists, name)
	}

	h := filter.NewHolder(name, f, c)
	c.holders = append(c.holders, h)
	c.byName[name] = h
	return h, nil
}

// GetFilterHolder 按注册名称查找过滤器记录。
func (c *Container) GetFilterHolder(name string) (*filter.Holder, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h, exists := c.byName[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrFilterNotFound, name)
	}
	return h, nil
}

// FilterHolders 返回按注册顺序排列的记录快照。
func (c *Container) FilterHolders() []*filter.Holder {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*filter.Holder, len(c.holders))
	copy(out, c.holders)
	return out
}

// InitFilters 按注册顺序初始化尚未初始化的过滤器，遇到第一个失败
// 即停止并返回该错误。记录自身不做重入保护，这里持锁检查
// IsInitialized，保证每个过滤器只成功初始化一次。
func (c *Container) InitFilters() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, h := range c.holders {
		if h.IsInitialized() {
			continue
		}
		if err := h.Init(); err != nil {
			return err
		}
	}
	return nil
}
