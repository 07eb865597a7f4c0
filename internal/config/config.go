// Package config 定义网关的 YAML 配置结构与加载逻辑。
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gateway.example/filter-gateway/pkg/logger"
)

// Duration 支持 "2s"、"500ms" 等字符串形式的时长配置。
type Duration time.Duration

// UnmarshalYAML 实现 yaml.Unmarshaler 接口
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("无效的时长格式 '%s': %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std 返回标准库的 time.Duration。
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config 网关总配置
type Config struct {
	Server         ServerConfig         `yaml:"server"`
	Logger         logger.Options       `yaml:"logger"`
	JWT            JWTConfig            `yaml:"jwt"`
	Database       DatabaseConfig       `yaml:"database"`
	HealthCheck    HealthCheckConfig    `yaml:"health_check"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Services       []ServiceConfig      `yaml:"services"`
	Routes         []RouteConfig        `yaml:"routes"`
	Filters        []FilterConfig       `yaml:"filters"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port string `yaml:"port"`
	// ChainCacheTTL 过滤器链缓存的过期时间，0 表示永不过期。
	ChainCacheTTL Duration `yaml:"chain_cache_ttl"`
}

// JWTConfig JWT 签发与校验配置
type JWTConfig struct {
	SecretKey       string `yaml:"secret_key"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Issuer          string `yaml:"issuer"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	DSN         string `yaml:"dsn"`
	AutoMigrate bool   `yaml:"auto_migrate"`
}

// HealthCheckConfig 后端实例健康检查配置
type HealthCheckConfig struct {
	Timeout  Duration `yaml:"timeout"`
	Interval Duration `yaml:"interval"`
}

// CircuitBreakerConfig 熔断器配置
type CircuitBreakerConfig struct {
	FailureThreshold int      `yaml:"failure_threshold"`
	SuccessThreshold int      `yaml:"success_threshold"`
	ResetTimeout     Duration `yaml:"reset_timeout"`
}

// ServiceConfig 后端服务配置
type ServiceConfig struct {
	Name            string           `yaml:"name"`
	LoadBalancer    string           `yaml:"load_balancer"`
	HealthCheckPath string           `yaml:"health_check_path"`
	Instances       []InstanceConfig `yaml:"instances"`
}

// InstanceConfig 服务实例配置
type InstanceConfig struct {
	URL    string `yaml:"url"`
	Weight int    `yaml:"weight"`
}

// RouteConfig 路由规则配置
type RouteConfig struct {
	PathPrefix  string `yaml:"path_prefix"`
	ServiceName string `yaml:"service_name"`
}

// FilterConfig 过滤器声明
type FilterConfig struct {
	Name            string            `yaml:"name"`
	Type            string            `yaml:"type"`
	URLPatterns     []string          `yaml:"url_patterns"`
	DispatcherTypes []string          `yaml:"dispatcher_types"`
	MatchAfter      bool              `yaml:"match_after"`
	AsyncSupported  bool              `yaml:"async_supported"`
	InitParams      map[string]string `yaml:"init_params"`
}

// Load 从指定路径加载并解析配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) validate() error {
	serviceNames := make(map[string]bool, len(c.Services))
	for _, svc := range c.Services {
		if svc.Name == "" {
			return fmt.Errorf("存在未命名的服务")
		}
		if serviceNames[svc.Name] {
			return fmt.Errorf("服务名称重复: '%s'", svc.Name)
		}
		serviceNames[svc.Name] = true
	}

	for _, route := range c.Routes {
		if !serviceNames[route.ServiceName] {
			return fmt.Errorf("路由 '%s' 引用了未定义的服务 '%s'", route.PathPrefix, route.ServiceName)
		}
	}

	filterNames := make(map[string]bool, len(c.Filters))
	for _, f := range c.Filters {
		if f.Name == "" {
			return fmt.Errorf("存在未命名的过滤器")
		}
		if filterNames[f.Name] {
			return fmt.Errorf("过滤器名称重复: '%s'", f.Name)
		}
		filterNames[f.Name] = true
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.HealthCheck.Timeout == 0 {
		c.HealthCheck.Timeout = Duration(2 * time.Second)
	}
	if c.HealthCheck.Interval == 0 {
		c.HealthCheck.Interval = Duration(10 * time.Second)
	}
	for i := range c.Services {
		if c.Services[i].LoadBalancer == "" {
			c.Services[i].LoadBalancer = "round_robin"
		}
		if c.Services[i].HealthCheckPath == "" {
			c.Services[i].HealthCheckPath = "/health"
		}
	}
}

// ServiceByName 按名称查找服务配置
func (c *Config) ServiceByName(name string) (*ServiceConfig, bool) {
	for i := range c.Services {
		if c.Services[i].Name == name {
			return &c.Services[i], true
		}
	}
	return nil, false
}
