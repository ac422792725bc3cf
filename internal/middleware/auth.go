package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ipsstrack/api/internal/security"
)

const (
	// ContextUserID carries the authenticated user's id.
	ContextUserID = "user_id"
	// ContextClaims carries the verified token claims.
	ContextClaims = "session_claims"
)

// Auth resolves the bearer token to a user identity. Every failure mode
// (missing header, malformed token, bad signature, expiry) produces the
// same 401 response; the sub-reason is never surfaced to the caller.
func Auth(tokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c)
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseToken(tokenStr, tokenSecret)
		if err != nil {
			unauthorized(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, *claims)

		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	userID, ok := id.(string)
	return userID, ok && userID != ""
}
