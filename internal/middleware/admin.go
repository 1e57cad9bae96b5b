package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tonicwater/backend/internal/logger"
)

// AdminAuth gates the administrative surface behind a shared secret. Every
// request re-authenticates independently: no sessions, no hashing.
type AdminAuth struct {
	log    *logger.Logger
	secret string
}

func NewAdminAuth(baseLog *logger.Logger, secret string) *AdminAuth {
	return &AdminAuth{
		log:    baseLog.With("middleware", "AdminAuth"),
		secret: secret,
	}
}

// Require accepts the credential from the Basic-auth password, a Bearer
// token, or the secret query parameter, in that precedence order, and
// compares it by plain equality against the configured secret.
func (m *AdminAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := credentialFrom(c)
		if m.secret == "" || cred == "" || cred != m.secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func credentialFrom(c *gin.Context) string {
	if _, password, ok := c.Request.BasicAuth(); ok && password != "" {
		return password
	}
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return c.Query("secret")
}
