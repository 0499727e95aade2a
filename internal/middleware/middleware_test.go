package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifierStub struct {
	ids map[string]uint
}

func (v verifierStub) Verify(token string) (uint, error) {
	if id, ok := v.ids[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/test", AuthRequired(verifierStub{ids: map[string]uint{"good": 123}}), func(c *fiber.Ctx) error {
		uid, _ := c.UserContext().Value(UserIDKey).(uint)
		return c.JSON(fiber.Map{"userID": c.Locals("userID"), "ctxUserID": uid})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Happy Path", "Bearer good", http.StatusOK},
		{"Missing Header", "", http.StatusUnauthorized},
		{"Invalid Format", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"Unknown Token", "Bearer nope", http.StatusUnauthorized},
		{"Extra Parts", "Bearer good extra", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRateLimiterAllow(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled lets everything through", func(t *testing.T) {
		l := NewRateLimiter(nil, false)
		for i := 0; i < 5; i++ {
			ok, err := l.Allow(ctx, "login", "ip:1", 1, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
	})

	t.Run("nil redis errors when enabled", func(t *testing.T) {
		l := NewRateLimiter(nil, true)
		ok, err := l.Allow(ctx, "login", "ip:1", 1, time.Minute)
		assert.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("counts within window", func(t *testing.T) {
		rdb := newTestRedis(t)
		l := NewRateLimiter(rdb, true)

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, "login", "ip:1", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok, "request %d", i+1)
		}
		ok, err := l.Allow(ctx, "login", "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = l.Allow(ctx, "login", "ip:2", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "other callers have their own bucket")

		ttl := rdb.TTL(ctx, "rl:login:ip:1").Val()
		assert.Greater(t, ttl, time.Duration(0))
	})
}

func TestRateLimiterHandler(t *testing.T) {
	rdb := newTestRedis(t)
	l := NewRateLimiter(rdb, true)

	app := fiber.New()
	app.Get("/limited", l.Handler("limited", 1, time.Minute, FailOpen), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiterFailPolicies(t *testing.T) {
	l := NewRateLimiter(nil, true)

	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/open", l.Handler("open", 1, time.Minute, FailOpen), ok)
	app.Get("/closed", l.Handler("closed", 1, time.Minute, FailClosed), ok)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/open", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/closed", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestLoggerAddsContextFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "production", "debug")

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(42))
	logger.With("component", "test").InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":42`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestParseLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "development", "warn")
	logger.Info("hidden")
	logger.Warn("shown")

	assert.False(t, strings.Contains(buf.String(), "hidden"))
	assert.True(t, strings.Contains(buf.String(), "shown"))
}
