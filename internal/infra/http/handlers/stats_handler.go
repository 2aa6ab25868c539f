package handlers

import (
	"net/http"

	"github.com/xavierca1/seller-console/internal/usecase"
)

type StatsHandler struct {
	Ctrl *usecase.Controller
}

func NewStatsHandler(ctrl *usecase.Controller) *StatsHandler {
	return &StatsHandler{Ctrl: ctrl}
}

// Handle (GET /stats)
func (h *StatsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, usecase.ComputeStats(h.Ctrl.Get()))
}
