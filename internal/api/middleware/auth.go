package middleware

import (
	"net/http"
	"strings"

	"health-heroes/internal/core/auth"
	"health-heroes/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	bearerPrefix = "bearer "
)

// TokenParser 驗證存取 token
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// Auth 要求 Authorization: Bearer <token>
func Auth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
			abortWithError(c, http.StatusUnauthorized, common.ErrCodeUnauthorized, "missing bearer token")
			return
		}

		claims, err := parser.ParseToken(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			common.LogDebug("token 驗證失敗",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
			abortWithError(c, http.StatusUnauthorized, common.ErrCodeUnauthorized, "invalid or expired token")
			return
		}
		userID, _ := claims.UserID()

		c.Set(userIDKey, userID)
		c.Set(userEmailKey, claims.Email)
		c.Next()
	}
}

// CurrentUserID 目前登入的使用者
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}
