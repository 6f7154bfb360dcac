package public

import "github.com/sellflow-next/internal/provider"

// Handler 面向买家/卖家的 API 处理器入口
type Handler struct {
	*provider.Container
}

// New 创建处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
