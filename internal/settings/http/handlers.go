package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GoSim-25-26J-441/projectdash/internal/auth"
	"github.com/GoSim-25-26J-441/projectdash/internal/settings/domain"
)

// GetSettings returns the current user's settings
func (h *Handler) GetSettings(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, domain.Envelope{Error: "unauthorized"})
		return
	}

	settings, err := h.settingsService.Get(c.Request.Context(), userID, auth.UserEmail(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, domain.Envelope{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, domain.Envelope{Success: true, Settings: settings})
}

// UpdateSettings updates the current user's settings
func (h *Handler) UpdateSettings(c *gin.Context) {
	userID := auth.UserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, domain.Envelope{Error: "unauthorized"})
		return
	}

	var req struct {
		DisplayName *string                `json:"displayName,omitempty"`
		Theme       *string                `json:"theme,omitempty"`
		Preferences map[string]interface{} `json:"preferences,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.Envelope{Error: "invalid body"})
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), userID, auth.UserEmail(c), &domain.UpdateSettingsRequest{
		DisplayName: req.DisplayName,
		Theme:       req.Theme,
		Preferences: req.Preferences,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTheme) {
			c.JSON(http.StatusBadRequest, domain.Envelope{Error: "theme must be one of light, dark, system"})
			return
		}
		c.JSON(http.StatusInternalServerError, domain.Envelope{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, domain.Envelope{Success: true, Settings: settings})
}
