package middleware

import (
	"github.com/gin-gonic/gin"

	"pointhub-backend/internal/shared/response"
)

// RequireRoles lets the request through only for one of the given roles.
// Must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		role := CurrentRole(c)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "access denied for role "+role)
			return
		}
		c.Next()
	}
}

// AdminMiddleware checks if user has admin role
func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles("admin")
}
