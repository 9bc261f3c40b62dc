package handler

import (
	"net/http"
	"time"

	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type DashboardHandler struct {
	stats ports.StatsRepository
}

func NewDashboardHandler(stats ports.StatsRepository) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

// Stats serves the staff dashboard aggregation.
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context(), time.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
