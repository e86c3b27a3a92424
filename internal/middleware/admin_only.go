package middleware

import (
	"net/http"

	"github.com/propellur/moca-patient-portal/internal/utils"

	"github.com/gin-gonic/gin"
)

// AdminOnly rejects requests whose session does not carry the admin role.
// It must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != utils.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
