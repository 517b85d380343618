package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TokenParser validates a session token of the given type.
type TokenParser interface {
	Parse(token, typ string) (int64, error)
}

// ContextUserID is the gin context key holding the authenticated user id.
const ContextUserID = "user_id"

// JWT requires "Authorization: Bearer <access token>" and stores the user id
// in the context.
func JWT(tokens TokenParser, typ string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credential",
				"message": "missing bearer token",
			})
			return
		}

		userID, err := tokens.Parse(strings.TrimSpace(raw), typ)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_credential",
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
