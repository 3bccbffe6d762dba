package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/projectreach/reach_go_server/internal/pkg/jwt"
	"github.com/projectreach/reach_go_server/internal/pkg/response"
)

const (
	AdminIDKey = "adminID"
)

// AdminAuth 管理端 JWT 认证中间件，活动与捐赠人的写操作都挂在它后面
func AdminAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "请提供认证信息")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "认证格式错误")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "认证失败或已过期")
			c.Abort()
			return
		}

		c.Set(AdminIDKey, claims.UserID)
		c.Next()
	}
}

// GetAdminID 从上下文取管理员 ID
func GetAdminID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(AdminIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(int64)
	return id, ok
}
