package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docrecon/internal/domain"
	"docrecon/internal/service"
)

const (
	ContextKeySubject = "subject"
	ContextKeyEmail   = "email"
	ContextKeyRole    = "role"
	ContextKeyClaims  = "claims"
)

// AuthMiddleware returns Gin middleware that validates JWT tokens and injects
// the reviewer identity.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "missing or invalid authorization header"},
			})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   gin.H{"code": "UNAUTHORIZED", "message": "invalid or expired token"},
			})
			return
		}

		c.Set(ContextKeySubject, claims.Subject)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyRole, string(claims.Role))
		c.Set(ContextKeyClaims, claims)
		c.Next()
	}
}

// RequireRole returns middleware that checks the user's role against allowed roles.
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleStr, exists := c.Get(ContextKeyRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   gin.H{"code": "FORBIDDEN", "message": "role not found in context"},
			})
			return
		}

		userRole := domain.UserRole(roleStr.(string))
		for _, r := range roles {
			if userRole == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   gin.H{"code": "FORBIDDEN", "message": "insufficient permissions"},
		})
	}
}

// GetSubject extracts the authenticated subject from the Gin context.
func GetSubject(c *gin.Context) (string, error) {
	val, exists := c.Get(ContextKeySubject)
	if !exists {
		return "", domain.ErrUnauthorized
	}
	return val.(string), nil
}

// GetRole extracts the user role string from the Gin context.
func GetRole(c *gin.Context) string {
	val, exists := c.Get(ContextKeyRole)
	if !exists {
		return ""
	}
	return val.(string)
}
