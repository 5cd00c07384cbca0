package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/RangaDM/shopfront/errors"
)

// AuthConfig configures the bearer token authentication middleware.
type AuthConfig struct {
	// TokenValidator validates a token string and returns the principal.
	TokenValidator func(token string) (any, error)
	// SkipPaths are URL path prefixes that bypass authentication.
	SkipPaths []string
}

// Auth returns a Gin middleware that validates Bearer tokens using the
// configured TokenValidator. The validated principal is stored in the Gin
// context under "principal".
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skip := range cfg.SkipPaths {
			if strings.HasPrefix(path, skip) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				errors.Unauthorized("authorization header required").ToResponse())
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				errors.Unauthorized("invalid authorization header format").ToResponse())
			return
		}

		principal, err := cfg.TokenValidator(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				errors.InvalidToken().ToResponse())
			return
		}

		c.Set("principal", principal)
		c.Next()
	}
}
