package http

import (
	"net/http"

	"github.com/cmlabs-hris/dashpro-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/dashpro-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Stats(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// Stats implements DashboardHandler.
func (h *dashboardHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	resp, err := h.dashboardService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, r, err)
		return
	}
	response.Success(w, resp)
}
