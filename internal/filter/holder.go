package filter

import "fmt"

// Holder 把一个过滤器实例与注册名称、所属上下文、初始化参数和
// 注册视图绑定为一条记录。初始化参数映射由 Holder 拥有，Config 视图
// 和 Registration 视图读写的都是这同一份存储。
type Holder struct {
	name         string
	filter       Filter
	ctx          PipelineContext
	initParams   map[string]string
	config       *Config
	registration *Registration
	initialized  bool
}

// NewHolder 创建过滤器记录，初始化参数映射为空但非 nil，
// 配置视图和注册视图随记录一起构建，访问器不会返回 nil。
func NewHolder(name string, f Filter, ctx PipelineContext) *Holder {
	h := &Holder{
		name:       name,
		filter:     f,
		ctx:        ctx,
		initParams: make(map[string]string),
	}
	h.config = &Config{holder: h}
	h.registration = newRegistration(h)
	return h
}

// Init 用配置视图初始化底层过滤器。成功后记录转为已初始化；
// 失败时错误向上传递，记录保持未初始化，调用可以重试。
// 本方法不做重入保护，只初始化一次由调用方通过 IsInitialized 约束。
func (h *Holder) Init() error {
	if err := h.filter.Init(h.config); err != nil {
		return fmt.Errorf("初始化过滤器 '%s' 失败: %w", h.name, err)
	}
	h.initialized = true
	return nil
}

// IsInitialized 报告底层过滤器是否已成功初始化。
func (h *Holder) IsInitialized() bool {
	return h.initialized
}

// GetFilter 返回底层过滤器实例。
func (h *Holder) GetFilter() Filter {
	return h.filter
}

// GetFilterConfig 返回传给 Filter.Init 的配置视图。
func (h *Holder) GetFilterConfig() *Config {
	return h.config
}

// GetRegistration 返回记录的动态注册视图。
func (h *Holder) GetRegistration() *Registration {
	return h.registration
}

// GetName 返回过滤器的注册名称。
func (h *Holder) GetName() string {
	return h.name
}

// GetContext 返回过滤器所属的管道上下文。
func (h *Holder) GetContext() PipelineContext {
	return h.ctx
}

// GetInitParameters 返回记录持有的初始化参数映射本体，不是副本。
func (h *Holder) GetInitParameters() map[string]string {
	return h.initParams
}

// Config 是传给 Filter.Init 的配置视图，数据全部取自所属记录。
type Config struct {
	holder *Holder
}

// GetFilterName 返回过滤器的注册名称。
func (c *Config) GetFilterName() string {
	return c.holder.name
}

// GetContext 返回过滤器所属的管道上下文。
func (c *Config) GetContext() PipelineContext {
	return c.holder.ctx
}

// GetInitParameter 返回指定初始化参数的值，不存在时返回空字符串。
func (c *Config) GetInitParameter(name string) string {
	return c.holder.initParams[name]
}

// GetInitParameterNames 返回当前全部初始化参数的名称。
func (c *Config) GetInitParameterNames() []string {
	names := make([]string, 0, len(c.holder.initParams))
	for name := range c.holder.initParams {
		names = append(names, name)
	}
	return names
}
