package filter_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/internal/filter"
)

type stubFilter struct {
	name      string
	initErr   error
	initCalls int
	gotCfg    *filter.Config
}

func (s *stubFilter) Name() string {
	return s.name
}

func (s *stubFilter) Init(cfg *filter.Config) error {
	s.initCalls++
	s.gotCfg = cfg
	return s.initErr
}

func (s *stubFilter) Execute(w http.ResponseWriter, r *http.Request) (bool, error) {
	return true, nil
}

type stubContext struct {
	name  string
	attrs map[string]any
}

func (s *stubContext) Name() string {
	return s.name
}

func (s *stubContext) Attribute(key string) any {
	return s.attrs[key]
}

func (s *stubContext) SetAttribute(key string, value any) {
	if s.attrs == nil {
		s.attrs = make(map[string]any)
	}
	s.attrs[key] = value
}

func TestNewHolder(t *testing.T) {
	t.Parallel()

	f := &stubFilter{name: "stub"}
	ctx := &stubContext{name: "pipeline"}
	h := filter.NewHolder("access-log", f, ctx)

	assert.Equal(t, "access-log", h.GetName())
	assert.Same(t, f, h.GetFilter().(*stubFilter))
	assert.Same(t, ctx, h.GetContext().(*stubContext))
	assert.False(t, h.IsInitialized())

	require.NotNil(t, h.GetFilterConfig())
	require.NotNil(t, h.GetRegistration())
	require.NotNil(t, h.GetInitParameters())
	assert.Empty(t, h.GetInitParameters())
}

func TestHolderInit(t *testing.T) {
	t.Parallel()

	f := &stubFilter{name: "stub"}
	h := filter.NewHolder("access-log", f, &stubContext{name: "pipeline"})

	require.NoError(t, h.Init())
	assert.True(t, h.IsInitialized())
	assert.Equal(t, 1, f.initCalls)
	assert.Same(t, h.GetFilterConfig(), f.gotCfg)
}

func TestHolderInitFailureAndRetry(t *testing.T) {
	t.Parallel()

	initErr := errors.New("missing secret")
	f := &stubFilter{name: "stub", initErr: initErr}
	h := filter.NewHolder("jwt-auth", f, &stubContext{name: "pipeline"})

	err := h.Init()
	require.Error(t, err)
	assert.ErrorIs(t, err, initErr)
	assert.False(t, h.IsInitialized())

	// 失败不改变状态，允许重试
	f.initErr = nil
	require.NoError(t, h.Init())
	assert.True(t, h.IsInitialized())
	assert.Equal(t, 2, f.initCalls)
}

func TestHolderInitParametersShared(t *testing.T) {
	t.Parallel()

	h := filter.NewHolder("access-log", &stubFilter{name: "stub"}, &stubContext{name: "pipeline"})
	reg := h.GetRegistration()
	cfg := h.GetFilterConfig()

	assert.True(t, reg.SetInitParameter("level", "debug"))

	// 注册视图、配置视图和记录读到的是同一份存储
	assert.Equal(t, "debug", h.GetInitParameters()["level"])
	assert.Equal(t, "debug", cfg.GetInitParameter("level"))
	assert.Equal(t, "debug", reg.GetInitParameter("level"))

	h.GetInitParameters()["format"] = "json"
	assert.Equal(t, "json", reg.GetInitParameter("format"))
	assert.Equal(t, "json", cfg.GetInitParameter("format"))
}

func TestConfigView(t *testing.T) {
	t.Parallel()

	ctx := &stubContext{name: "pipeline"}
	h := filter.NewHolder("access-log", &stubFilter{name: "stub"}, ctx)
	cfg := h.GetFilterConfig()

	assert.Equal(t, "access-log", cfg.GetFilterName())
	assert.Same(t, ctx, cfg.GetContext().(*stubContext))
	assert.Equal(t, "", cfg.GetInitParameter("absent"))
	assert.Empty(t, cfg.GetInitParameterNames())

	reg := h.GetRegistration()
	reg.SetInitParameter("level", "debug")
	reg.SetInitParameter("format", "json")
	assert.ElementsMatch(t, []string{"level", "format"}, cfg.GetInitParameterNames())
}
