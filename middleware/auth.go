package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Pland4r/qcm-creator-hub/services"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// DefaultPublicPrefixes are reachable without a token.
var DefaultPublicPrefixes = []string{"/api/auth/", "/public/"}

type TokenParser interface {
	Parse(ctx context.Context, token string) (*services.Claims, error)
}

// AuthMiddleware lets requests under publicPrefixes through unconditionally
// and requires a valid bearer token everywhere else. A valid token on a
// public path is still attached to the context.
func AuthMiddleware(tokens TokenParser, publicPrefixes []string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		public := isPublicPath(c.Request.URL.Path, publicPrefixes)

		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			if public {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := tokens.Parse(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextClaims, claims)
		case public:
		case errors.Is(err, services.ErrInvalidToken):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		default:
			logger.Error("token check failed", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

// ClaimsFrom returns the claims attached by AuthMiddleware, if any.
func ClaimsFrom(c *gin.Context) (*services.Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*services.Claims)
	return claims, ok
}

func isPublicPath(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
