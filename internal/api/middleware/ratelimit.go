package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"flota-backend/pkg/ratelimit"
	"flota-backend/pkg/utils"
)

// RateLimitMiddleware throttles requests per client. Authenticated clients
// are keyed by user ID, anonymous ones by source address.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := clientIdentifier(c)
		category := endpointCategory(c)

		allowed, retryAfter, err := limiter.Allow(clientID, category)
		if err != nil {
			// A broken limiter must not take the API down with it.
			c.Header("X-RateLimit-Error", "rate limiter unavailable")
			c.Next()
			return
		}

		limit := limiter.Limit(category)
		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Window", limit.Window.String())

		if !allowed {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
			utils.ErrorResponse(c, http.StatusTooManyRequests,
				fmt.Sprintf("Rate limit exceeded, try again in %v", retryAfter), nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func clientIdentifier(c *gin.Context) string {
	if userID := c.GetString("user_id"); userID != "" {
		return "user:" + userID
	}
	return "ip:" + c.ClientIP()
}

// endpointCategory buckets routes so each bucket can carry its own limit.
// Login gets the strictest one, polling reads the loosest.
func endpointCategory(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}

	switch {
	case path == "/api/v1/auth/login":
		return "auth_login"
	case strings.HasPrefix(path, "/api/v1/auth/"):
		return "auth"
	case path == "/health" || path == "/metrics":
		return "health"
	case strings.HasPrefix(path, "/api/v1/reports"):
		return "reports"
	}

	switch c.Request.Method {
	case http.MethodGet, http.MethodHead:
		return "read"
	default:
		return "write"
	}
}
