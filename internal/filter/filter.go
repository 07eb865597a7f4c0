// Package filter 实现网关过滤器的注册核心：过滤器记录（Holder）、
// 动态注册视图（Registration）和初始化配置视图（Config）。
// 本包只负责校验与状态记录，不做调度执行，也不做并发控制，
// 由上层容器和链调度器协调并发与初始化时机。
package filter

import "net/http"

// Filter 是所有网关过滤器必须实现的接口。
type Filter interface {
	// Name 返回过滤器实现的标识名称
	Name() string
	// Init 在过滤器参与请求处理之前调用，cfg 提供注册名称、
	// 所属上下文和初始化参数。返回错误表示初始化失败，允许重试。
	Init(cfg *Config) error
	// Execute 在请求处理流程中执行过滤逻辑
	// 返回值 bool 表示是否继续执行后续过滤器链
	Execute(w http.ResponseWriter, r *http.Request) (bool, error)
}

// PipelineContext 是过滤器所属的管道上下文，由容器实现。
type PipelineContext interface {
	// Name 返回上下文的名称
	Name() string
	// Attribute 返回上下文属性，不存在时为 nil
	Attribute(key string) any
	// SetAttribute 设置上下文属性
	SetAttribute(key string, value any)
}
