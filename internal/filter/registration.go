package filter

import (
	"fmt"
	"strings"
)

// Registration 是过滤器记录的动态注册视图，在过滤器初始化之前用来
// 配置 URL 模式映射、调度类型、异步支持和一次性写入的初始化参数。
// 视图由 Holder 创建，一条记录对应一个视图，初始化参数与记录共享
// 同一份存储。
type Registration struct {
	holder          *Holder
	urlPatterns     []string
	dispatcherTypes []DispatcherType
	asyncSupported  bool
}

func newRegistration(h *Holder) *Registration {
	return &Registration{holder: h}
}

// AddMappingForURLPatterns 为过滤器登记 URL 模式映射。
// 全部模式先整体校验，任何一个非法就返回 ErrInvalidURLPattern，
// 调度类型和已有模式都不发生变化；校验通过后先登记调度类型
// （dispatcherTypes 为 nil 时补默认的 DispatcherRequest，重复项保留），
// 再把本次模式作为一个整体登记：isMatchAfter 为 true 追加到已有模式
// 之后，为 false 则整体插到已有模式之前，块内顺序保持不变。
// 模式个数为零时调度类型照常登记。
func (r *Registration) AddMappingForURLPatterns(dispatcherTypes []DispatcherType, isMatchAfter bool, urlPatterns ...string) error {
	for _, pattern := range urlPatterns {
		if !isValidURLPattern(pattern) {
			return fmt.Errorf("%w: %q", ErrInvalidURLPattern, pattern)
		}
	}

	if dispatcherTypes == nil {
		r.dispatcherTypes = append(r.dispatcherTypes, DispatcherRequest)
	} else {
		r.dispatcherTypes = append(r.dispatcherTypes, dispatcherTypes...)
	}

	if isMatchAfter {
		r.urlPatterns = append(r.urlPatterns, urlPatterns...)
	} else {
		merged := make([]string, 0, len(urlPatterns)+len(r.urlPatterns))
		merged = append(merged, urlPatterns...)
		merged = append(merged, r.urlPatterns...)
		r.urlPatterns = merged
	}
	return nil
}

// isValidURLPattern 校验单个 URL 模式：按 '/' 切分并丢弃末尾的空段，
// 去除首尾空白后等于 "*" 的段是通配符段，通配符段只允许出现在
// 最后一段。没有通配符段的模式总是合法。
func isValidURLPattern(pattern string) bool {
	parts := strings.Split(pattern, "/")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}

	wildcardPosition := -1
	for i, part := range parts {
		if strings.TrimSpace(part) == "*" {
			wildcardPosition = i
		}
	}
	return wildcardPosition == -1 || wildcardPosition == len(parts)-1
}

// GetURLPatternMappings 返回已登记的 URL 模式切片本体，顺序即登记
// 规则排出的顺序。
func (r *Registration) GetURLPatternMappings() []string {
	return r.urlPatterns
}

// AddMappingForServiceNames 始终返回 ErrServiceNameMapping 且不产生
// 任何状态变更。网关只支持按 URL 模式映射过滤器。
func (r *Registration) AddMappingForServiceNames(dispatcherTypes []DispatcherType, isMatchAfter bool, serviceNames ...string) error {
	return ErrServiceNameMapping
}

// GetServiceNameMappings 返回已登记的服务名映射，始终为空。
func (r *Registration) GetServiceNameMappings() []string {
	return nil
}

// GetDispatcherTypes 返回已登记的调度类型切片本体，按登记顺序排列，
// 重复项保留。
func (r *Registration) GetDispatcherTypes() []DispatcherType {
	return r.dispatcherTypes
}

// SetAsyncSupported 标记过滤器是否支持异步调度。
func (r *Registration) SetAsyncSupported(supported bool) {
	r.asyncSupported = supported
}

// IsAsyncSupported 报告过滤器是否支持异步调度。
func (r *Registration) IsAsyncSupported() bool {
	return r.asyncSupported
}

// GetName 返回过滤器的注册名称。
func (r *Registration) GetName() string {
	return r.holder.name
}

// GetClassName 返回底层过滤器实例的实现类型名。
func (r *Registration) GetClassName() string {
	return fmt.Sprintf("%T", r.holder.filter)
}

// SetInitParameter 写入单个初始化参数。参数只能写入一次：名称已存在
// 时返回 false 且保留原值，否则写入共享存储并返回 true。
func (r *Registration) SetInitParameter(name, value string) bool {
	if _, exists := r.holder.initParams[name]; exists {
		return false
	}
	r.holder.initParams[name] = value
	return true
}

// SetInitParameters 批量写入初始化参数，逐项应用一次性写入规则：
// 新名称写入，已存在的名称收集为冲突集返回，已写入的部分不回滚。
// 返回空集合表示全部写入成功。
func (r *Registration) SetInitParameters(params map[string]string) []string {
	conflicts := make([]string, 0)
	for name, value := range params {
		if !r.SetInitParameter(name, value) {
			conflicts = append(conflicts, name)
		}
	}
	return conflicts
}

// GetInitParameter 返回指定初始化参数的值，不存在时返回空字符串。
func (r *Registration) GetInitParameter(name string) string {
	return r.holder.initParams[name]
}

// GetInitParameters 返回与记录共享的初始化参数映射本体。
func (r *Registration) GetInitParameters() map[string]string {
	return r.holder.initParams
}
