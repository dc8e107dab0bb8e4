package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flota-backend/internal/models"
	"flota-backend/pkg/jwt"
)

func setupAuthRouter(jwtUtil *jwt.JWTUtil) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	protected := router.Group("/")
	protected.Use(AuthMiddleware(jwtUtil))
	protected.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": c.GetString("user_id"),
			"email":  c.GetString("email"),
			"role":   c.GetString("role"),
		})
	})

	admin := protected.Group("/admin")
	admin.Use(RequireAdmin())
	admin.GET("/users", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	return router
}

func authRequest(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingHeader(t *testing.T) {
	router := setupAuthRouter(jwt.NewJWTUtil("test-secret", "1h"))

	w := authRequest(router, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsInvalidToken(t *testing.T) {
	router := setupAuthRouter(jwt.NewJWTUtil("test-secret", "1h"))

	w := authRequest(router, "/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareRejectsTokenFromOtherSecret(t *testing.T) {
	other := jwt.NewJWTUtil("other-secret", "1h")
	token, err := other.GenerateToken("user-1", "user@flota.com", models.RoleManager)
	require.NoError(t, err)

	router := setupAuthRouter(jwt.NewJWTUtil("test-secret", "1h"))

	w := authRequest(router, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareSetsIdentity(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("test-secret", "1h")
	token, err := jwtUtil.GenerateToken("user-1", "user@flota.com", models.RoleManager)
	require.NoError(t, err)

	router := setupAuthRouter(jwtUtil)

	w := authRequest(router, "/me", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
	assert.Contains(t, w.Body.String(), "user@flota.com")
	assert.Contains(t, w.Body.String(), models.RoleManager)
}

func TestRequireAdminBlocksNonAdmins(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("test-secret", "1h")
	router := setupAuthRouter(jwtUtil)

	token, err := jwtUtil.GenerateToken("user-1", "driver@flota.com", models.RoleDriver)
	require.NoError(t, err)

	w := authRequest(router, "/admin/users", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsBothAdminLevels(t *testing.T) {
	jwtUtil := jwt.NewJWTUtil("test-secret", "1h")
	router := setupAuthRouter(jwtUtil)

	for _, role := range []string{models.RoleAdmin, models.RoleAdminL2} {
		token, err := jwtUtil.GenerateToken("admin-1", "admin@flota.com", role)
		require.NoError(t, err)

		w := authRequest(router, "/admin/users", token)
		assert.Equal(t, http.StatusOK, w.Code, "role %s", role)
	}
}
