package http

import "github.com/GoSim-25-26J-441/projectdash/internal/projects/service"

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	svc *service.ProjectService
}

func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// updateReq ignores identity fields such as ownerId or email.
type updateReq struct {
	ID          string  `json:"id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
