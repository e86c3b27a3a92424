package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/propellur/moca-patient-portal/internal/user"
	"github.com/propellur/moca-patient-portal/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	t.Run("Missing header rejected", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage token rejected", func(t *testing.T) {
		r := newTestRouter()
		r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Valid token populates identity", func(t *testing.T) {
		token, err := user.GenerateJWT("pat@moca.test", user.RolePatient)
		require.NoError(t, err)

		r := newTestRouter()
		r.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
			assert.Equal(t, "pat@moca.test", c.GetString(EmailKey))
			assert.Equal(t, utils.RolePatient, c.GetString(RoleKey))

			email, ok := utils.GetUserEmailFromContext(c.Request.Context())
			assert.True(t, ok)
			assert.Equal(t, "pat@moca.test", email)

			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminOnly(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	protected := func(r *gin.Engine) {
		r.GET("/admin", AuthMiddleware(), AdminOnly(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	t.Run("Patient token forbidden", func(t *testing.T) {
		token, err := user.GenerateJWT("pat@moca.test", user.RolePatient)
		require.NoError(t, err)

		r := newTestRouter()
		protected(r)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Admin token allowed", func(t *testing.T) {
		token, err := user.GenerateJWT("admin@moca.test", user.RoleAdmin)
		require.NoError(t, err)

		r := newTestRouter()
		protected(r)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestRateLimit(t *testing.T) {
	r := newTestRouter()
	r.POST("/auth/code", RateLimit(true), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	var lastCode int
	for i := 0; i < burstStrict+1; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/code", nil)
		req.RemoteAddr = "10.1.2.3:1234"
		r.ServeHTTP(w, req)
		lastCode = w.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, lastCode)
}
