package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"flota-backend/pkg/ratelimit"
)

func setupRateLimitedRouter(cfg *ratelimit.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)

	limiter := ratelimit.NewMemoryLimiter(cfg)

	router := gin.New()
	router.Use(RateLimitMiddleware(limiter))

	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) }
	router.POST("/api/v1/auth/login", ok)
	router.GET("/api/v1/vehicles", ok)
	router.POST("/api/v1/vehicles", ok)
	router.GET("/api/v1/reports/costs", ok)

	return router
}

func doRequest(router *gin.Engine, method, path, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimitBlocksRepeatedLogins(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	cfg.Limits["auth_login"] = ratelimit.Limit{Requests: 2, Window: time.Minute}

	router := setupRateLimitedRouter(cfg)

	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodPost, "/api/v1/auth/login", "10.1.1.1:1234")
		assert.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
	}

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", "10.1.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	// Another address is unaffected.
	w = doRequest(router, http.MethodPost, "/api/v1/auth/login", "10.1.1.2:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitCategoriesAreIndependent(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	cfg.Limits["write"] = ratelimit.Limit{Requests: 1, Window: time.Minute}
	cfg.Limits["read"] = ratelimit.Limit{Requests: 100, Window: time.Minute}

	router := setupRateLimitedRouter(cfg)

	w := doRequest(router, http.MethodPost, "/api/v1/vehicles", "10.1.1.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/vehicles", "10.1.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/vehicles", "10.1.1.1:1234")
	assert.Equal(t, http.StatusOK, w.Code, "reads are not throttled by the write limit")
}

func TestRateLimitReportsCategory(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	cfg.Limits["reports"] = ratelimit.Limit{Requests: 1, Window: time.Minute}

	router := setupRateLimitedRouter(cfg)

	w := doRequest(router, http.MethodGet, "/api/v1/reports/costs", "10.1.1.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/reports/costs", "10.1.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRateLimitHeadersOnSuccess(t *testing.T) {
	cfg := ratelimit.DefaultConfig()
	router := setupRateLimitedRouter(cfg)

	w := doRequest(router, http.MethodGet, "/api/v1/vehicles", "10.1.1.1:1234")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Window"))
}
