package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group. The group is
// expected to run behind middleware.RequireSession.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.getCurrent)
	rg.POST("", h.create)
	rg.PATCH("", h.update)
	rg.GET("/:id", h.getByID)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}
