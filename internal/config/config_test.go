package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
server:
  port: "9090"
  chain_cache_ttl: "5m"
logger:
  level: debug
  format: json
jwt:
  secret_key: "test-secret"
  duration_minutes: 30
  issuer: "filter-gateway"
database:
  dsn: "user:pass@tcp(127.0.0.1:3306)/gateway?charset=utf8mb4&parseTime=True"
  auto_migrate: true
health_check:
  timeout: "3s"
  interval: "15s"
services:
  - name: "user-service"
    load_balancer: "weighted_round_robin"
    health_check_path: "/healthz"
    instances:
      - url: "http://localhost:8081"
        weight: 3
      - url: "http://localhost:8082"
        weight: 1
routes:
  - path_prefix: "/api/users"
    service_name: "user-service"
filters:
  - name: "auth"
    type: "jwt_auth"
    url_patterns: ["/api/*"]
    dispatcher_types: ["REQUEST", "FORWARD"]
    match_after: true
    async_supported: true
    init_params:
      secret_key: "test-secret"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.ChainCacheTTL.Std())
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "test-secret", cfg.JWT.SecretKey)
	assert.Equal(t, 30, cfg.JWT.DurationMinutes)
	assert.Equal(t, "filter-gateway", cfg.JWT.Issuer)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 3*time.Second, cfg.HealthCheck.Timeout.Std())
	assert.Equal(t, 15*time.Second, cfg.HealthCheck.Interval.Std())

	require.Len(t, cfg.Services, 1)
	assert.Equal(t, "weighted_round_robin", cfg.Services[0].LoadBalancer)
	assert.Equal(t, "/healthz", cfg.Services[0].HealthCheckPath)
	require.Len(t, cfg.Services[0].Instances, 2)
	assert.Equal(t, 3, cfg.Services[0].Instances[0].Weight)

	require.Len(t, cfg.Routes, 1)
	assert.Equal(t, "user-service", cfg.Routes[0].ServiceName)

	require.Len(t, cfg.Filters, 1)
	f := cfg.Filters[0]
	assert.Equal(t, "jwt_auth", f.Type)
	assert.Equal(t, []string{"/api/*"}, f.URLPatterns)
	assert.Equal(t, []string{"REQUEST", "FORWARD"}, f.DispatcherTypes)
	assert.True(t, f.MatchAfter)
	assert.True(t, f.AsyncSupported)
	assert.Equal(t, "test-secret", f.InitParams["secret_key"])
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
services:
  - name: "svc"
    instances:
      - url: "http://localhost:8081"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Server.ChainCacheTTL.Std())
	assert.Equal(t, 2*time.Second, cfg.HealthCheck.Timeout.Std())
	assert.Equal(t, 10*time.Second, cfg.HealthCheck.Interval.Std())
	assert.Equal(t, "round_robin", cfg.Services[0].LoadBalancer)
	assert.Equal(t, "/health", cfg.Services[0].HealthCheckPath)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "格式错误",
			content: "server: [not a mapping",
		},
		{
			name: "时长格式错误",
			content: `
health_check:
  timeout: "three seconds"
`,
		},
		{
			name: "路由引用未定义服务",
			content: `
services:
  - name: "svc-a"
routes:
  - path_prefix: "/api"
    service_name: "svc-b"
`,
		},
		{
			name: "服务名称重复",
			content: `
services:
  - name: "svc"
  - name: "svc"
`,
		},
		{
			name: "过滤器名称重复",
			content: `
filters:
  - name: "f1"
    type: "rate_limit"
  - name: "f1"
    type: "jwt_auth"
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			path := writeConfigFile(t, tt.content)
			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestServiceByName(t *testing.T) {
	t.Parallel()

	path := writeConfigFile(t, `
services:
  - name: "svc-a"
  - name: "svc-b"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	svc, ok := cfg.ServiceByName("svc-b")
	require.True(t, ok)
	assert.Equal(t, "svc-b", svc.Name)

	_, ok = cfg.ServiceByName("svc-c")
	assert.False(t, ok)
}
