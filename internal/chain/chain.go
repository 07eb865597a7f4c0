// Package chain 按注册信息装配过滤器链并驱动执行。
package chain

import (
	"fmt"
	"net/http"

	"gateway.example/filter-gateway/internal/filter"
)

// Chain 是一条装配好的过滤器链：按注册顺序筛选出的过滤器记录，
// 加上链末端的终端处理器。
type Chain struct {
	holders  []*filter.Holder
	terminal http.Handler
}

// NewChain 用给定的记录和终端处理器创建链。
func NewChain(holders []*filter.Holder, terminal http.Handler) *Chain {
	return &Chain{
		holders:  holders,
		terminal: terminal,
	}
}

// Execute 依次执行链上的过滤器。过滤器返回 false 时链安静地停止，
// 响应由过滤器自己写出；返回错误时链停止并把带过滤器名称的错误上抛；
// 全部过滤器放行后执行终端处理器。
func (c *Chain) Execute(w http.ResponseWriter, r *http.Request) error {
	for _, h := range c.holders {
		continueChain, err := h.GetFilter().Execute(w, r)
		if err != nil {
			return fmt.Errorf("过滤器 '%s' 执行失败: %w", h.GetName(), err)
		}
		if !continueChain {
			return nil
		}
	}

	if c.terminal != nil {
		c.terminal.ServeHTTP(w, r)
	}
	return nil
}

// Len 返回链上过滤器的数量。
func (c *Chain) Len() int {
	return len(c.holders)
}

// FilterNames 返回链上过滤器的注册名称，按执行顺序排列。
func (c *Chain) FilterNames() []string {
	names := make([]string, 0, len(c.holders))
	for _, h := range c.holders {
		names = append(names, h.GetName())
	}
	return names
}
