package chain_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/internal/chain"
	"gateway.example/filter-gateway/internal/filter"
)

type execFilter struct {
	name  string
	cont  bool
	err   error
	trace *[]string
}

func (f *execFilter) Name() string {
	return f.name
}

func (f *execFilter) Init(cfg *filter.Config) error {
	return nil
}

func (f *execFilter) Execute(w http.ResponseWriter, r *http.Request) (bool, error) {
	*f.trace = append(*f.trace, f.name)
	return f.cont, f.err
}

func newExecChain(t *testing.T, terminal http.Handler, filters ...*execFilter) (*chain.Chain, *[]string) {
	t.Helper()

	trace := &[]string{}
	holders := make([]*filter.Holder, 0, len(filters))
	for _, f := range filters {
		f.trace = trace
		holders = append(holders, filter.NewHolder(f.name, f, nil))
	}
	return chain.NewChain(holders, terminal), trace
}

func TestChainExecuteAllContinue(t *testing.T) {
	t.Parallel()

	terminalHit := false
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terminalHit = true
		w.WriteHeader(http.StatusOK)
	})

	c, trace := newExecChain(t, terminal,
		&execFilter{name: "first", cont: true},
		&execFilter{name: "second", cont: true},
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	require.NoError(t, c.Execute(w, r))

	assert.Equal(t, []string{"first", "second"}, *trace)
	assert.True(t, terminalHit)
}

func TestChainExecuteHaltsQuietly(t *testing.T) {
	t.Parallel()

	terminalHit := false
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terminalHit = true
	})

	c, trace := newExecChain(t, terminal,
		&execFilter{name: "first", cont: true},
		&execFilter{name: "blocker", cont: false},
		&execFilter{name: "unreached", cont: true},
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	require.NoError(t, c.Execute(w, r))

	// 过滤器中断链后，后续过滤器和终端处理器都不执行
	assert.Equal(t, []string{"first", "blocker"}, *trace)
	assert.False(t, terminalHit)
}

func TestChainExecuteError(t *testing.T) {
	t.Parallel()

	execErr := errors.New("backend unavailable")
	terminalHit := false
	terminal := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		terminalHit = true
	})

	c, trace := newExecChain(t, terminal,
		&execFilter{name: "broken", cont: true, err: execErr},
		&execFilter{name: "unreached", cont: true},
	)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	err := c.Execute(w, r)

	require.Error(t, err)
	assert.ErrorIs(t, err, execErr)
	assert.Contains(t, err.Error(), "broken")
	assert.Equal(t, []string{"broken"}, *trace)
	assert.False(t, terminalHit)
}

func TestChainExecuteNilTerminal(t *testing.T) {
	t.Parallel()

	c, trace := newExecChain(t, nil, &execFilter{name: "only", cont: true})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, c.Execute(w, r))
	assert.Equal(t, []string{"only"}, *trace)
}

func TestChainMetadata(t *testing.T) {
	t.Parallel()

	c, _ := newExecChain(t, nil,
		&execFilter{name: "a", cont: true},
		&execFilter{name: "b", cont: true},
	)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a", "b"}, c.FilterNames())
}
