package middleware

import (
	"Bandwall/internal/pkg/consts"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

const maxCreatorLen = 128

// IdentityMiddleware 读取网关注入的用户标识，缺失时使用匿名身份
func IdentityMiddleware(anonymous string) gin.HandlerFunc {
	return func(c *gin.Context) {
		creator := strings.TrimSpace(c.GetHeader(consts.HeaderUserID))
		if creator == "" || utf8.RuneCountInString(creator) > maxCreatorLen {
			creator = anonymous
		}
		c.Set(consts.CreatorKey, creator)
		c.Next()
	}
}

// Creator 当前请求的创建者
func Creator(c *gin.Context) string {
	return c.GetString(consts.CreatorKey)
}
