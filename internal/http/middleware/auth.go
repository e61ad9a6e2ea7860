// README: Bearer token auth middleware; stores the verified caller on the gin context.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ridepool/internal/infra"
)

const (
	ctxCallerUID  = "caller_uid"
	ctxCallerRole = "caller_role"
)

// Auth rejects requests without a valid "Authorization: Bearer <token>"
// header. A nil verifier lets every request through anonymously.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimSpace(raw))
		if err != nil || tok == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxCallerUID, tok.UID)
		if role, ok := tok.Claims["role"].(string); ok {
			c.Set(ctxCallerRole, role)
		}
		c.Next()
	}
}

// CallerUID returns the verified caller, or "" for anonymous requests.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxCallerUID)
}

func CallerRole(c *gin.Context) string {
	return c.GetString(ctxCallerRole)
}
