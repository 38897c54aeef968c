package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

type DashboardHandler interface {
	// GetDaily returns today's attendance summary, or ?date=YYYY-MM-DD
	GetDaily(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetDaily handles GET /company/dashboard
func (h *dashboardHandlerImpl) GetDaily(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetDaily(r.Context(), dashboard.DailyRequest{
		Date: r.URL.Query().Get("date"),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
