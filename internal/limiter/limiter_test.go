package limiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gateway.example/filter-gateway/internal/limiter"
)

func TestMemoryTokenBucketConsumesCapacity(t *testing.T) {
	t.Parallel()

	b := limiter.NewMemoryTokenBucket(2, 1, "test")
	ctx := context.Background()

	assert.True(t, b.Allow(ctx, "client-a"))
	assert.True(t, b.Allow(ctx, "client-a"))
	assert.False(t, b.Allow(ctx, "client-a"))
}

func TestMemoryTokenBucketRefills(t *testing.T) {
	t.Parallel()

	// 每秒补充 100 枚，睡 50ms 后应当已有新令牌
	b := limiter.NewMemoryTokenBucket(1, 100, "test")
	ctx := context.Background()

	require.True(t, b.Allow(ctx, "client-a"))
	require.False(t, b.Allow(ctx, "client-a"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, b.Allow(ctx, "client-a"))
}

func TestMemoryTokenBucketIdentifiersIndependent(t *testing.T) {
	t.Parallel()

	b := limiter.NewMemoryTokenBucket(1, 1, "test")
	ctx := context.Background()

	assert.True(t, b.Allow(ctx, "client-a"))
	assert.False(t, b.Allow(ctx, "client-a"))

	// 其他标识符有自己的桶
	assert.True(t, b.Allow(ctx, "client-b"))
}

func TestMemoryTokenBucketName(t *testing.T) {
	t.Parallel()

	b := limiter.NewMemoryTokenBucket(1, 1, "api-bucket")
	assert.Equal(t, "api-bucket", b.Name())
}

func TestNoOpLimiter(t *testing.T) {
	t.Parallel()

	l := &limiter.NoOpLimiter{}
	ctx := context.Background()
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow(ctx, "anything"))
	}
}

func TestGetIdentifierFunc(t *testing.T) {
	t.Parallel()

	t.Run("ip 策略优先级", func(t *testing.T) {
		t.Parallel()

		fn, err := limiter.GetIdentifierFunc("ip")
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/api", nil)
		r.Header.Set("X-Forwarded-For", "203.0.113.7")
		r.Header.Set("X-Real-Ip", "198.51.100.2")
		assert.Equal(t, "203.0.113.7", fn(r))

		r = httptest.NewRequest(http.MethodGet, "/api", nil)
		r.Header.Set("X-Real-Ip", "198.51.100.2")
		assert.Equal(t, "198.51.100.2", fn(r))

		r = httptest.NewRequest(http.MethodGet, "/api", nil)
		r.RemoteAddr = "192.0.2.10:5123"
		assert.Equal(t, "192.0.2.10", fn(r))
	})

	t.Run("path 策略", func(t *testing.T) {
		t.Parallel()

		fn, err := limiter.GetIdentifierFunc("PATH")
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		assert.Equal(t, "/api/users", fn(r))
	})

	t.Run("global 策略", func(t *testing.T) {
		t.Parallel()

		fn, err := limiter.GetIdentifierFunc("global")
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		assert.Equal(t, "global", fn(r))
	})

	t.Run("未知策略", func(t *testing.T) {
		t.Parallel()

		fn, err := limiter.GetIdentifierFunc("header")
		require.Error(t, err)
		assert.Nil(t, fn)
	})
}
