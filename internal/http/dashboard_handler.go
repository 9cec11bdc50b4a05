package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nerufirm/appneruf/internal/service"
)

type DashboardHandler struct {
	dashboard service.DashboardService
	logger    *zap.Logger
}

func NewDashboardHandler(dashboard service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	resp, err := h.dashboard.GetDashboard(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, Fail("failed to load dashboard"))
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
