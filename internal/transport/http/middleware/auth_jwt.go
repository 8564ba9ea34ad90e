package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-gin-gallery/internal/core/auth"
	resp "go-gin-gallery/internal/transport/http/response"
)

// 上下文 key
const (
	KeyClaims = "claims"
	KeyUserID = "userId"
	KeyRole   = "role"
)

// ActiveChecker 判断 token 对应的用户当前是否可用（停用/已删除返回 false）
type ActiveChecker func(ctx context.Context, uid string) (bool, error)

// AuthJWT 校验 Bearer token；requireRole 为空表示不限角色，active 为 nil 表示不回查用户状态
func AuthJWT(j *auth.JWTer, requireRole string, active ActiveChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				resp.Error(resp.CodeUnauthorized, "Authentication credentials were not provided."))
			return
		}
		claims, err := j.Parse(strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "Invalid token."))
			return
		}
		if active != nil {
			ok, err := active(c.Request.Context(), claims.UID)
			if err != nil {
				_ = c.Error(err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp.Error(resp.CodeServerError, ""))
				return
			}
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, "User inactive or deleted."))
				return
			}
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, ""))
			return
		}
		c.Set(KeyClaims, claims)
		c.Set(KeyUserID, claims.UID)
		c.Set(KeyRole, claims.Role)
		c.Next()
	}
}
