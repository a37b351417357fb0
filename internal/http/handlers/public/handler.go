package public

import "github.com/mesa-next/internal/provider"

// Handler 公开接口处理器入口
// 说明：菜单浏览、顾客会话（购物车与结账）、餐厅注册与登录。
type Handler struct {
	*provider.Container
}

// New 创建公开接口处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
