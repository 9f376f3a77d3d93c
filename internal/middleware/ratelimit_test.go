// AngelaMos | 2026
// ratelimit_test.go

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

// unreachableRedis forces every limiter call onto the in-process fallback.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiterFallsBackLocally(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit: Every(time.Minute, 2, 2),
	})
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiterBypass(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Limit:      Every(time.Minute, 1, 1),
		BypassFunc: func(r *http.Request) bool { return r.Method == http.MethodOptions },
	})
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for range 3 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/products", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestKeyFunctions(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/products/42", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "ratelimit:ip:192.0.2.1", KeyByIP(req))
	assert.Equal(t, "ratelimit:ip:192.0.2.1:endpoint:/products/{id}", KeyByUserAndEndpoint(req))

	req = req.WithContext(WithIdentity(req.Context(), &Identity{UserID: 7}))
	assert.Equal(t, "ratelimit:user:7", KeyByUser(req))
}

func TestLocalLimiterRefills(t *testing.T) {
	l := newLocalLimiter()
	limit := Every(time.Minute, 2, 2)
	now := time.Unix(1700000000, 0)

	for range 2 {
		res, err := l.allow("k", limit, now)
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Allowed)
	}

	res, err := l.allow("k", limit, now)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Allowed)
	assert.Equal(t, 30*time.Second, res.RetryAfter)

	res, err = l.allow("other", limit, now)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)

	res, err = l.allow("k", limit, now.Add(31*time.Second))
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Allowed)
}

func TestLocalLimiterRejectsZeroRate(t *testing.T) {
	_, err := newLocalLimiter().allow("k", Every(time.Minute, 0, 0), time.Now())
	assert.Error(t, err)
}

func TestRateLimiterNamespacesKeys(t *testing.T) {
	rl := NewRateLimiter(unreachableRedis(t), RateLimitConfig{
		Name:  "auth",
		Limit: Every(time.Minute, 1, 1),
	})
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.9:1"
	assert.Equal(t, "auth:ratelimit:ip:10.0.0.9", rl.key(req))
	assert.Equal(t, "/products/{id}/image", normalizeEndpoint("/products/12/image"))
}
