package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthmate/healthmate-api/internal/model"
)

const userContextKey = "currentUser"

// TokenResolver validates a raw token and loads the account it belongs to.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}

// Auth authenticates requests from a bearer header or the session cookie
// and stores the resolved user on the context.
func Auth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized, no token",
			})
			return
		}

		user, err := resolver.ResolveToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Not authorized, token failed",
			})
			return
		}

		c.Set(userContextKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("token"); err == nil {
		return cookie
	}
	return ""
}

// CurrentUser returns the authenticated user set by Auth.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
