package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"fanhouse/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID   = "user_id"
	ContextUserRole = "user_role"
)

var ErrUserNotFound = errors.New("user not found")

// UserResolver returns the role currently stored for a user, or
// ErrUserNotFound when the account no longer exists.
type UserResolver interface {
	ResolveRole(ctx context.Context, userID string) (string, error)
}

// AuthMiddleware validates the bearer token and, when users is set, reloads
// the role from storage so that revoked accounts and role changes take
// effect before the token expires.
func AuthMiddleware(jwtService *jwt.Service, users ...UserResolver) gin.HandlerFunc {
	var resolver UserResolver
	if len(users) > 0 {
		resolver = users[0]
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		role := claims.Role
		if resolver != nil {
			role, err = resolver.ResolveRole(c.Request.Context(), claims.UserID)
			if errors.Is(err, ErrUserNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
				c.Abort()
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Authentication failed"})
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, role)
		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextUserRole)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		c.Abort()
	}
}
