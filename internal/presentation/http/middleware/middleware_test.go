package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/laundry-pos/internal/config"
	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memoryKeys struct {
	mu   sync.Mutex
	keys map[string]*entity.IdempotencyKey
}

func newMemoryKeys() *memoryKeys {
	return &memoryKeys{keys: map[string]*entity.IdempotencyKey{}}
}

func (m *memoryKeys) GetByKey(_ context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.keys[userID.String()+key], nil
}

func (m *memoryKeys) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keys[ikey.UserID.String()+ikey.Key] = ikey
	return nil
}

func (m *memoryKeys) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, v := range m.keys {
		if v.ExpiresAt.Before(now) {
			delete(m.keys, k)
			n++
		}
	}
	return n, nil
}

func withUser(id uuid.UUID, roles, permissions []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_roles", roles)
		c.Set("user_permissions", permissions)
		c.Next()
	}
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	userID := uuid.New()
	token, err := jwtManager.GenerateAccessToken(userID, "cashier@example.com", []string{"cashier"}, []string{"manage-orders"})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, c.MustGet("user_id").(uuid.UUID).String())
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Equal(t, userID.String(), w.Body.String())
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	cases := []struct {
		name        string
		roles       []string
		permissions []string
		want        int
	}{
		{"granted", []string{"cashier"}, []string{"view-orders", "manage-orders"}, http.StatusOK},
		{"missing", []string{"workshop"}, []string{"view-orders"}, http.StatusForbidden},
		{"admin bypass", []string{AdminRole}, []string{}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/orders", withUser(uuid.New(), tc.roles, tc.permissions), RequirePermission("manage-orders"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/orders", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		r := gin.New()
		r.GET("/x", RequirePermission("print"), func(c *gin.Context) { c.Status(http.StatusOK) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.GET("/x", withUser(uuid.New(), []string{"workshop"}, nil), RequireRole("manager", "admin"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	repo := newMemoryKeys()
	calls := 0
	userID := uuid.New()

	r := gin.New()
	r.Use(withUser(userID, nil, nil))
	r.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"order_no": "LND-000001", "calls": calls})
	})
	r.POST("/orders/:id/pay", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	send := func(path, key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{}`))
		if key != "" {
			req.Header.Set(IdempotencyKeyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send("/orders", "tap-1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := send("/orders", "tap-1")
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replayed"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	reused := send("/orders/"+uuid.NewString()+"/pay", "tap-1")
	assert.Equal(t, http.StatusUnprocessableEntity, reused.Code)
	assert.Equal(t, 1, calls)

	send("/orders", "")
	send("/orders", "")
	assert.Equal(t, 3, calls)
}

func TestIdempotency_DoesNotStoreServerErrors(t *testing.T) {
	repo := newMemoryKeys()
	fail := true
	r := gin.New()
	r.Use(withUser(uuid.New(), nil, nil))
	r.POST("/orders", Idempotency(IdempotencyConfig{Repo: repo}), func(c *gin.Context) {
		if fail {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusCreated)
	})

	req := func() int {
		rq := httptest.NewRequest(http.MethodPost, "/orders", nil)
		rq.Header.Set(IdempotencyKeyHeader, "retry-me")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, rq)
		return w.Code
	}

	assert.Equal(t, http.StatusInternalServerError, req())
	assert.Empty(t, repo.keys)

	fail = false
	assert.Equal(t, http.StatusCreated, req())
	assert.Len(t, repo.keys, 1)
}

func TestRateLimiter_LimitsPerUser(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	})
	defer rl.Stop()

	alice, bob := uuid.New(), uuid.New()
	r := gin.New()
	r.GET("/cart", func(c *gin.Context) {
		if c.GetHeader("X-User") == "bob" {
			c.Set("user_id", bob)
		} else {
			c.Set("user_id", alice)
		}
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/cart", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, hit("alice").Code)
	assert.Equal(t, http.StatusOK, hit("alice").Code)
	limited := hit("alice")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "0", limited.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "2", limited.Header().Get("X-RateLimit-Limit"))

	assert.Equal(t, http.StatusOK, hit("bob").Code)
	assert.Equal(t, 2, rl.Stats()["active_clients"])
}

func TestRateLimiterConfigFor(t *testing.T) {
	cfg := RateLimiterConfigFor(120, 60)
	assert.Equal(t, 2.0, cfg.RequestsPerSecond)
	assert.Equal(t, 120, cfg.BurstSize)

	assert.Equal(t, DefaultRateLimiterConfig(), RateLimiterConfigFor(0, 60))
}

func TestLoggerMiddleware_SetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggerMiddleware(nil))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	assert.Equal(t, id, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", shortID("abc"))
	assert.Equal(t, "12345678", shortID("123456789abc"))
}

func TestCORSConfig_AddsCounterHeaders(t *testing.T) {
	cfg := corsConfig(&config.CORSConfig{AllowedHeaders: []string{"authorization"}})

	assert.Contains(t, cfg.AllowHeaders, IdempotencyKeyHeader)
	assert.Contains(t, cfg.AllowHeaders, "X-Request-ID")
	assert.NotContains(t, cfg.AllowHeaders, "Authorization")
	assert.Contains(t, cfg.ExposeHeaders, "Content-Disposition")
	assert.Contains(t, cfg.ExposeHeaders, "X-Idempotency-Replayed")
	assert.NotEmpty(t, cfg.AllowOrigins)
	assert.Contains(t, cfg.AllowMethods, "PATCH")
}
