package shared

import (
	"strings"

	"github.com/mesa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// 认证中间件写入的上下文键
const (
	ContextKeyAccountID    = "account_id"
	ContextKeyAccountRole  = "account_role"
	ContextKeyRestaurantID = "restaurant_id"
	ContextKeyRequestID    = response.RequestIDKey
)

// GetContextStringWithKeys 从上下文读取字符串值并统一处理错误响应。
func GetContextStringWithKeys(c *gin.Context, key, missingKey string) (string, bool) {
	value, exists := c.Get(key)
	if !exists {
		RespondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return "", false
	}
	str, ok := value.(string)
	if !ok || strings.TrimSpace(str) == "" {
		RespondError(c, response.CodeForbidden, missingKey, nil)
		return "", false
	}
	return str, true
}

// GetAccountID 当前账号 ID
func GetAccountID(c *gin.Context) (string, bool) {
	return GetContextStringWithKeys(c, ContextKeyAccountID, "error.unauthorized")
}

// GetRestaurantID 当前账号所属餐厅
func GetRestaurantID(c *gin.Context) (string, bool) {
	return GetContextStringWithKeys(c, ContextKeyRestaurantID, "error.forbidden")
}
