package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ClaimsKey = "claims"
	ActorKey  = "actor"
)

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// AuthMiddleware verifies Bearer tokens using the provided verifier. Requests that do
// not carry a valid token get a 404 so the workflow routes stay invisible to anonymous
// callers.
func AuthMiddleware(ver Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c.GetHeader("Authorization"))
		if !ok || ver == nil {
			notFound(c)
			return
		}

		tok, err := ver.Verify(c.Request.Context(), raw)
		if err != nil {
			notFound(c)
			return
		}

		var claims map[string]interface{}
		if err := tok.Claims(&claims); err != nil {
			notFound(c)
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, Actor(claims))
		c.Next()
	}
}

// Actor picks a display name for the caller: preferred_username, then email, then sub.
func Actor(claims map[string]interface{}) string {
	for _, k := range []string{"preferred_username", "email", "sub"} {
		if s, ok := claims[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"status": "error", "error": "not found"})
}
