package user

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// IdentityHeader 是外部认证服务注入的用户身份头。
	IdentityHeader = "X-User-Email"
	// EmailKey 是用户身份在Gin上下文中的键名。
	EmailKey = "userEmail"
)

// LoadUserMiddleware 读取身份头并将其值放入Gin上下文中。
// 这里不做认证，缺失身份的请求由各Handler按未授权处理。
func LoadUserMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.ToLower(strings.TrimSpace(c.GetHeader(IdentityHeader)))
		c.Set(EmailKey, email)
		c.Next()
	}
}

// EmailFromContext 从Gin上下文中取出当前用户的邮箱，未设置时返回空串。
func EmailFromContext(c *gin.Context) string {
	return c.GetString(EmailKey)
}
