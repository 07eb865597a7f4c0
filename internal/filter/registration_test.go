package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/internal/filter"
)

func newTestRegistration(t *testing.T) *filter.Registration {
	t.Helper()
	h := filter.NewHolder("test-filter", &stubFilter{name: "stub"}, &stubContext{name: "pipeline"})
	return h.GetRegistration()
}

func TestAddMappingForURLPatternsValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		valid   bool
	}{
		{name: "空模式", pattern: "", valid: true},
		{name: "单独通配符", pattern: "*", valid: true},
		{name: "根通配符", pattern: "/*", valid: true},
		{name: "末段通配符", pattern: "/api/*", valid: true},
		{name: "末段通配符带结尾斜杠", pattern: "/api/*/", valid: true},
		{name: "无通配符", pattern: "/api/users", valid: true},
		{name: "无前导斜杠", pattern: "api/*", valid: true},
		{name: "通配符带空白", pattern: "/api/ * ", valid: true},
		{name: "连续通配符末段收尾", pattern: "/*/*", valid: true},
		{name: "中段通配符", pattern: "/api/*/users", valid: false},
		{name: "首段通配符后有内容", pattern: "*/api", valid: false},
		{name: "中段通配符带空白", pattern: "/api/ * /users", valid: false},
		{name: "末段通配符后跟空白段", pattern: "/api/*/ ", valid: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reg := newTestRegistration(t)
			err := reg.AddMappingForURLPatterns(nil, true, tt.pattern)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, []string{tt.pattern}, reg.GetURLPatternMappings())
			} else {
				require.Error(t, err)
				assert.ErrorIs(t, err, filter.ErrInvalidURLPattern)
				assert.Contains(t, err.Error(), tt.pattern)
			}
		})
	}
}

func TestAddMappingForURLPatternsAllOrNothing(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true, "/existing/*"))

	err := reg.AddMappingForURLPatterns(
		[]filter.DispatcherType{filter.DispatcherForward},
		true,
		"/ok/*", "/bad/*/path",
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, filter.ErrInvalidURLPattern)

	// 一个模式非法时整个调用不产生任何状态变更
	assert.Equal(t, []string{"/existing/*"}, reg.GetURLPatternMappings())
	assert.Equal(t, []filter.DispatcherType{filter.DispatcherRequest}, reg.GetDispatcherTypes())
}

func TestAddMappingForURLPatternsAppendAndPrepend(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true, "/a", "/b"))
	require.NoError(t, reg.AddMappingForURLPatterns(nil, false, "/c", "/d"))
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true, "/e"))

	// 前插作为整体置前，块内顺序不变；追加排在末尾
	assert.Equal(t, []string{"/c", "/d", "/a", "/b", "/e"}, reg.GetURLPatternMappings())
}

func TestAddMappingForURLPatternsDispatcherTypes(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)

	// nil 调度类型补默认 REQUEST
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true, "/a"))
	assert.Equal(t, []filter.DispatcherType{filter.DispatcherRequest}, reg.GetDispatcherTypes())

	// 显式调度类型按序追加，重复项保留
	require.NoError(t, reg.AddMappingForURLPatterns(
		[]filter.DispatcherType{filter.DispatcherForward, filter.DispatcherError, filter.DispatcherForward},
		true, "/b",
	))
	assert.Equal(t, []filter.DispatcherType{
		filter.DispatcherRequest,
		filter.DispatcherForward,
		filter.DispatcherError,
		filter.DispatcherForward,
	}, reg.GetDispatcherTypes())

	// 空但非 nil 的切片不追加任何调度类型
	require.NoError(t, reg.AddMappingForURLPatterns([]filter.DispatcherType{}, true, "/c"))
	assert.Len(t, reg.GetDispatcherTypes(), 4)
	assert.Equal(t, []string{"/a", "/b", "/c"}, reg.GetURLPatternMappings())
}

func TestAddMappingForURLPatternsZeroPatterns(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true))

	// 没有模式时调度类型照常登记
	assert.Empty(t, reg.GetURLPatternMappings())
	assert.Equal(t, []filter.DispatcherType{filter.DispatcherRequest}, reg.GetDispatcherTypes())
}

func TestAddMappingForServiceNames(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true, "/a"))

	err := reg.AddMappingForServiceNames([]filter.DispatcherType{filter.DispatcherForward}, true, "user-service")
	require.Error(t, err)
	assert.ErrorIs(t, err, filter.ErrServiceNameMapping)

	// 不支持的操作不得留下任何痕迹
	assert.Empty(t, reg.GetServiceNameMappings())
	assert.Equal(t, []string{"/a"}, reg.GetURLPatternMappings())
	assert.Equal(t, []filter.DispatcherType{filter.DispatcherRequest}, reg.GetDispatcherTypes())
}

func TestSetInitParameter(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)

	assert.True(t, reg.SetInitParameter("secret_key", "first"))
	assert.False(t, reg.SetInitParameter("secret_key", "second"))
	assert.Equal(t, "first", reg.GetInitParameter("secret_key"))
	assert.Equal(t, "", reg.GetInitParameter("absent"))
}

func TestSetInitParameters(t *testing.T) {
	t.Parallel()

	t.Run("全部写入", func(t *testing.T) {
		t.Parallel()

		reg := newTestRegistration(t)
		conflicts := reg.SetInitParameters(map[string]string{
			"secret_key": "abc",
			"issuer":     "filter-gateway",
		})
		assert.Empty(t, conflicts)
		assert.Equal(t, "abc", reg.GetInitParameter("secret_key"))
		assert.Equal(t, "filter-gateway", reg.GetInitParameter("issuer"))
	})

	t.Run("部分冲突", func(t *testing.T) {
		t.Parallel()

		reg := newTestRegistration(t)
		require.True(t, reg.SetInitParameter("secret_key", "original"))

		conflicts := reg.SetInitParameters(map[string]string{
			"secret_key": "overwritten",
			"issuer":     "filter-gateway",
		})

		// 冲突键不覆盖，新键照常写入
		assert.Equal(t, []string{"secret_key"}, conflicts)
		assert.Equal(t, "original", reg.GetInitParameter("secret_key"))
		assert.Equal(t, "filter-gateway", reg.GetInitParameter("issuer"))
	})

	t.Run("多键冲突", func(t *testing.T) {
		t.Parallel()

		reg := newTestRegistration(t)
		require.True(t, reg.SetInitParameter("a", "1"))
		require.True(t, reg.SetInitParameter("b", "2"))

		conflicts := reg.SetInitParameters(map[string]string{
			"a": "x",
			"b": "y",
			"c": "3",
		})
		assert.ElementsMatch(t, []string{"a", "b"}, conflicts)
		assert.Equal(t, "1", reg.GetInitParameter("a"))
		assert.Equal(t, "2", reg.GetInitParameter("b"))
		assert.Equal(t, "3", reg.GetInitParameter("c"))
	})
}

func TestRegistrationIdentity(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	assert.Equal(t, "test-filter", reg.GetName())
	assert.Equal(t, "*filter_test.stubFilter", reg.GetClassName())
}

func TestAsyncSupported(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	assert.False(t, reg.IsAsyncSupported())

	reg.SetAsyncSupported(true)
	assert.True(t, reg.IsAsyncSupported())

	reg.SetAsyncSupported(false)
	assert.False(t, reg.IsAsyncSupported())
}

func TestAccessorsReturnLiveState(t *testing.T) {
	t.Parallel()

	reg := newTestRegistration(t)
	require.NoError(t, reg.AddMappingForURLPatterns(nil, true, "/a", "/b"))

	// 访问器返回内部切片本体，不是防御性副本
	mappings := reg.GetURLPatternMappings()
	mappings[0] = "/mutated"
	assert.Equal(t, []string{"/mutated", "/b"}, reg.GetURLPatternMappings())

	params := reg.GetInitParameters()
	params["injected"] = "value"
	assert.Equal(t, "value", reg.GetInitParameter("injected"))
}
