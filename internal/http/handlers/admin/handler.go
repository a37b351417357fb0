package admin

import (
	handlershared "github.com/mesa-next/internal/http/handlers/shared"
	"github.com/mesa-next/internal/provider"

	"github.com/gin-gonic/gin"
)

// Handler 超级管理员接口处理器入口
// 说明：该处理器仅用于平台管理 API。
type Handler struct {
	*provider.Container
}

// New 创建超级管理员处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}
