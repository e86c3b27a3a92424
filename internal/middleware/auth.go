package middleware

import (
	"net/http"
	"strings"

	"github.com/propellur/moca-patient-portal/internal/user"
	"github.com/propellur/moca-patient-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	EmailKey = "userEmail"
	RoleKey  = "userRole"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in both the gin context and the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		claims, err := user.ParseJWT(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(EmailKey, claims.Email)
		c.Set(RoleKey, claims.Role)

		ctx := utils.SetUserContext(c.Request.Context(), claims.Email, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
