package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"health-heroes/internal/core/auth"
	"health-heroes/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func stopOnCleanup(t *testing.T) <-chan struct{} {
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	return stop
}

func TestClientLimiterRefills(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := now
	cl := NewClientLimiter(2, time.Minute)
	cl.now = func() time.Time { return now }

	assert.True(t, cl.Allow("a"))
	assert.True(t, cl.Allow("a"))
	now = start.Add(time.Second)
	assert.False(t, cl.Allow("a"))

	// 30 秒補回一個令牌
	now = start.Add(31 * time.Second)
	assert.True(t, cl.Allow("a"))
	now = start.Add(32 * time.Second)
	assert.False(t, cl.Allow("a"))
}

func TestClientLimiterSeparatesClients(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(1, time.Minute)
	cl.now = func() time.Time { return now }

	assert.True(t, cl.Allow("a"))
	assert.False(t, cl.Allow("a"))
	assert.True(t, cl.Allow("b"))

	now = now.Add(2 * time.Minute)
	assert.True(t, cl.Allow("a"))
	assert.Equal(t, 1, cl.Prune())

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, cl.Prune())
	assert.Zero(t, cl.Len())
}

func TestClientLimiterCleanupRunsWithoutRejections(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cl := NewClientLimiter(10, time.Minute)
	cl.now = func() time.Time { return now }
	assert.True(t, cl.Allow("a"))
	assert.True(t, cl.Allow("b"))
	require.Equal(t, 2, cl.Len())

	later := now.Add(time.Hour)
	cl.now = func() time.Time { return later }
	cl.StartCleanup(stopOnCleanup(t), 5*time.Millisecond)

	assert.Eventually(t, func() bool { return cl.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(config.RateLimitConfig{Enabled: true, Requests: 1, Window: time.Minute}, stopOnCleanup(t)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "TOO_MANY_REQUESTS")
}

func TestRateLimitDisabled(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(config.RateLimitConfig{Enabled: false, Requests: 1, Window: time.Minute}, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestDeduplication(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDeduplicator(2 * time.Second)
	d.now = func() time.Time { return now }

	var bodies []string
	r := gin.New()
	r.POST("/meals", Deduplication(d), func(c *gin.Context) {
		b, _ := c.GetRawData()
		bodies = append(bodies, string(b))
		c.Status(http.StatusCreated)
	})

	send := func(body string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/meals", strings.NewReader(body)))
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, send(`{"a":1}`))
	assert.Equal(t, http.StatusTooManyRequests, send(`{"a":1}`))
	assert.Equal(t, http.StatusCreated, send(`{"a":2}`))

	now = now.Add(3 * time.Second)
	assert.Equal(t, http.StatusCreated, send(`{"a":1}`))
	assert.Equal(t, []string{`{"a":1}`, `{"a":2}`, `{"a":1}`}, bodies)

	now = now.Add(time.Minute)
	assert.Equal(t, 2, d.Cleanup())
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodySizeLimit(8), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("0123456789")))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("ok")))
	assert.Equal(t, http.StatusOK, w.Code)
}

type stubParser struct{}

func (stubParser) ParseToken(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{Email: "a@example.com", RegisteredClaims: jwt.RegisteredClaims{Subject: "42"}}, nil
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.GET("/me", Auth(stubParser{}), func(c *gin.Context) {
		id, ok := CurrentUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	cases := []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer", http.StatusUnauthorized},
		{"Basic good", http.StatusUnauthorized},
		{"Bearer bad", http.StatusUnauthorized},
		{"Bearer good", http.StatusOK},
		{"bearer good", http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.header)
		if tc.status == http.StatusOK {
			assert.JSONEq(t, `{"id":42}`, w.Body.String())
		}
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
