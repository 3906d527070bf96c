package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/orda-service/internal/logger"
	"github.com/orda-service/internal/model"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

const (
	APIKeyHeader      = "X-API-Key"
	AdminSecretHeader = "X-Admin-Secret"

	KeyIDContextKey      = "api_key_id"
	CustomerIDContextKey = "customer_id"
)

type KeyLookup interface {
	LookupKey(ctx context.Context, keyID string) (*model.APIKey, error)
}

// RequireAPIKey accepts a key from X-API-Key or an Authorization bearer
// token. The signature is checked first, then the stored record must exist,
// match and be active.
func RequireAPIKey(tokens *Tokens, keys KeyLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := credential(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, ErrMissingCredential)
			return
		}

		claims, err := tokens.Parse(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, ErrInvalidCredential)
			return
		}

		key, err := keys.LookupKey(c.Request.Context(), claims.ID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				abort(c, http.StatusForbidden, ErrInactiveKey)
				return
			}
			logger.FromContext(c.Request.Context()).Error("failed to look up api key", zap.String("key_id", claims.ID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
			return
		}

		if !key.Active || subtle.ConstantTimeCompare([]byte(key.Key), []byte(token)) != 1 {
			abort(c, http.StatusForbidden, ErrInactiveKey)
			return
		}

		c.Set(KeyIDContextKey, key.KeyID)
		c.Set(CustomerIDContextKey, key.CustomerID)
		c.Next()
	}
}

// RequireAdminSecret guards administrative routes with a shared secret.
func RequireAdminSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presented := c.GetHeader(AdminSecretHeader)
		if presented == "" {
			abort(c, http.StatusUnauthorized, ErrMissingCredential)
			return
		}
		if subtle.ConstantTimeCompare([]byte(presented), []byte(secret)) != 1 {
			abort(c, http.StatusForbidden, ErrInvalidCredential)
			return
		}
		c.Next()
	}
}

func credential(c *gin.Context) string {
	if key := c.GetHeader(APIKeyHeader); key != "" {
		return key
	}
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}

func abort(c *gin.Context, status int, err error) {
	logger.FromContext(c.Request.Context()).Warn("request rejected", zap.Int("status", status), zap.Error(err))
	c.AbortWithStatusJSON(status, gin.H{"message": err.Error()})
}
