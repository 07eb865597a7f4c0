package filter

import (
	"fmt"
	"strings"
)

// DispatcherType 表示请求进入过滤器链的调度方式。
type DispatcherType int

const (
	// DispatcherRequest 客户端直接请求，未指定调度类型时的默认值
	DispatcherRequest DispatcherType = iota
	// DispatcherForward 网关内部转发
	DispatcherForward
	// DispatcherInclude 网关内部包含
	DispatcherInclude
	// DispatcherAsync 异步调度
	DispatcherAsync
	// DispatcherError 错误处理调度
	DispatcherError
)

// String 返回调度类型的配置名称。
func (d DispatcherType) String() string {
	switch d {
	case DispatcherRequest:
		return "REQUEST"
	case DispatcherForward:
		return "FORWARD"
	case DispatcherInclude:
		return "INCLUDE"
	case DispatcherAsync:
		return "ASYNC"
	case DispatcherError:
		return "ERROR"
	default:
		return fmt.Sprintf("DISPATCHER(%d)", int(d))
	}
}

// ParseDispatcherType 把配置中的调度类型名称解析为 DispatcherType，
// 名称不区分大小写。
func ParseDispatcherType(s string) (DispatcherType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "REQUEST":
		return DispatcherRequest, nil
	case "FORWARD":
		return DispatcherForward, nil
	case "INCLUDE":
		return DispatcherInclude, nil
	case "ASYNC":
		return DispatcherAsync, nil
	case "ERROR":
		return DispatcherError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDispatcherType, s)
	}
}
