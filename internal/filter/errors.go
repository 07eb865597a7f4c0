package filter

import "errors"

// 注册核心错误定义
var (
	// ErrInvalidURLPattern 表示 URL 模式中通配符段出现在非末尾位置
	ErrInvalidURLPattern = errors.New("invalid url pattern")
	// ErrServiceNameMapping 表示按服务名映射过滤器不受支持
	ErrServiceNameMapping = errors.New("service name mappings are not supported")
	// ErrUnknownDispatcherType 表示无法识别的调度类型名称
	ErrUnknownDispatcherType = errors.New("unknown dispatcher type")
)
