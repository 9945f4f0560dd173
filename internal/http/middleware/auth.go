// README: Firebase ID-token auth middleware; stores the caller's uid on the context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"voyager/internal/infra"
)

const (
	ctxUID   = "auth.uid"
	ctxEmail = "auth.email"
)

// Auth rejects requests without a valid "Authorization: Bearer <id token>".
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil || token == nil || token.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxUID, token.UID)
		c.Set(ctxEmail, token.Email)
		c.Next()
	}
}

// CallerUID returns the authenticated uid, or "" outside Auth.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxUID)
}

func CallerEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}
