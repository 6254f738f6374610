package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timeledger-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/hris-timeledger-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetOverview returns today's counts, department stats and activity
	GetOverview(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetOverview handles GET /dashboard/overview
func (h *dashboardHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetOverview(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
