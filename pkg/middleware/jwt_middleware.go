package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"modelflow/internal/plans"
	"modelflow/pkg/utils"
)

func JWTAuthMiddleware() gin.HandlerFunc {

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Pass user information to the next handler
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("Role", claims.Role)
		c.Next()
	}
}

// AdminMiddleware gates the admin surface behind the owner allowlist. There
// is no role hierarchy beyond owner vs. everyone else.
func AdminMiddleware(catalog *plans.Catalog) gin.HandlerFunc {

	return func(c *gin.Context) {
		email := c.GetString("user_email")

		if !catalog.IsOwnerIdentity(email) {
			utils.RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
