package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gateway.example/filter-gateway/internal/chain"
)

func TestMatchURLPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "全局通配符", pattern: "*", path: "/anything/at/all", want: true},
		{name: "根前缀命中子路径", pattern: "/*", path: "/api/users", want: true},
		{name: "前缀命中子路径", pattern: "/api/*", path: "/api/users", want: true},
		{name: "前缀命中深层子路径", pattern: "/api/*", path: "/api/users/42/orders", want: true},
		{name: "前缀命中前缀本身", pattern: "/api/*", path: "/api", want: true},
		{name: "前缀不命中兄弟路径", pattern: "/api/*", path: "/apiv2/users", want: false},
		{name: "前缀不命中其他路径", pattern: "/api/*", path: "/auth/login", want: false},
		{name: "精确命中", pattern: "/healthz", path: "/healthz", want: true},
		{name: "精确不命中子路径", pattern: "/healthz", path: "/healthz/db", want: false},
		{name: "空模式只命中空路径", pattern: "", path: "/api", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, chain.MatchURLPattern(tt.pattern, tt.path))
		})
	}
}
