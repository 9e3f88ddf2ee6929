package middleware

import (
	"net/http"
	"strings"

	"Yatube/internal/pkg"

	"github.com/gin-gonic/gin"
)

const ContextUserIDKey = "user_id"

// Authenticate reads an optional bearer token. Requests without one continue
// as anonymous; a token that fails verification is rejected.
func Authenticate(verifier *pkg.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid authorization format"})
			return
		}

		claims, err := verifier.ParseAccess(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "invalid or expired token"})
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireViewer rejects anonymous requests.
func RequireViewer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ViewerID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "authentication required"})
			return
		}
		c.Next()
	}
}

// ViewerID is the authenticated user id, or 0 for an anonymous viewer.
func ViewerID(c *gin.Context) uint64 {
	if v, ok := c.Get(ContextUserIDKey); ok {
		if id, ok2 := v.(uint64); ok2 {
			return id
		}
	}
	return 0
}
