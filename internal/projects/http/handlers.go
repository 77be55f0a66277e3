package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/projectdash/internal/auth"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/domain"
	"github.com/GoSim-25-26J-441/projectdash/internal/projects/service"
)

func (h *Handler) getCurrent(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	write(c, h.svc.GetCurrent(c.Request.Context(), userID))
}

func (h *Handler) getByID(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	write(c, h.svc.GetByID(c.Request.Context(), c.Param("id"), userID))
}

func (h *Handler) create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Envelope{Success: false, Error: "invalid body"})
		return
	}

	write(c, h.svc.Create(c.Request.Context(), userID, domain.CreateInput{
		Name:        req.Name,
		Description: req.Description,
	}))
}

func (h *Handler) update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Envelope{Success: false, Error: "invalid body"})
		return
	}

	id := c.Param("id")
	if id == "" {
		id = req.ID
	}
	write(c, h.svc.Update(c.Request.Context(), userID, domain.UpdateInput{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}))
}

func (h *Handler) delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	write(c, h.svc.Delete(c.Request.Context(), c.Param("id"), userID))
}

func requireUser(c *gin.Context) (string, bool) {
	userID := auth.UserID(c)
	if userID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, domain.Envelope{Success: false, Error: "unauthorized"})
		return "", false
	}
	return userID, true
}

func write(c *gin.Context, res service.Result) {
	if res.Outcome == service.OutcomeDeleted {
		c.Status(res.StatusCode())
		return
	}
	c.JSON(res.StatusCode(), res.Envelope())
}
