package http

import "github.com/gin-gonic/gin"

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.GetSettings)
	rg.PUT("", h.UpdateSettings)
}
