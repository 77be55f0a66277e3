package http

import "github.com/GoSim-25-26J-441/projectdash/internal/settings/service"

type Handler struct {
	settingsService *service.SettingsService
}

func New(settingsService *service.SettingsService) *Handler {
	return &Handler{
		settingsService: settingsService,
	}
}
