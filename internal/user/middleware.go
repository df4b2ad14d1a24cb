package user

import (
	"net/http"
	"strings"

	"github.com/Qiuarctica/memodate-backend/internal/platform/database"
	"github.com/gin-gonic/gin"
)

const (
	// UserIDKey 是认证通过后，用户UUID在Gin上下文中的键名。
	UserIDKey = "userID"
)

// RequireSessionMiddleware 校验Authorization头中的Bearer令牌，
// 并将用户UUID放入Gin上下文。没有有效会话的请求会被直接拒绝。
func RequireSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "缺少会话令牌"})
			return
		}

		session, err := ParseSession(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "会话无效或已过期"})
			return
		}

		// Redis健康时做一次低成本的存在性检查，拦截已注销的用户。
		// 降级状态下跳过，避免缓存故障把所有已登录用户挡在门外。
		if database.IsRedisHealthy() {
			activated, err := IsUserActivated(session.UserID)
			if err == nil && !activated {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
				return
			}
		}

		c.Set(UserIDKey, session.UserID)
		c.Next()
	}
}

// CurrentUserID 从Gin上下文中取出已认证的用户UUID。
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
