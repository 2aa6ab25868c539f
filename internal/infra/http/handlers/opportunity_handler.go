package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/usecase"
)

type OpportunityHandler struct {
	Coord  *usecase.Coordinator
	Ctrl   *usecase.Controller
	Logger *zap.Logger
}

func NewOpportunityHandler(coord *usecase.Coordinator, ctrl *usecase.Controller, logger *zap.Logger) *OpportunityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpportunityHandler{Coord: coord, Ctrl: ctrl, Logger: logger}
}

// List (GET /opportunities). Stage, sort and page update the shared view.
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r, "stage")
	if !ok {
		return
	}

	out, err := usecase.ListOpportunities(r.Context(), h.Ctrl, usecase.OpportunityQuery{
		Search: q.Search,
		Stage:  q.Filter,
		Sort:   q.sortConfig(),
		Page:   q.page(),
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	opp, found := h.Ctrl.Get().FindOpportunity(chi.URLParam(r, "id"))
	if !found {
		writeUsecaseError(w, entity.ErrOpportunityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.OpportunityPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.IsEmpty() {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_PATCH", "Nothing to update")
		return
	}

	opp, err := h.Coord.UpdateOpportunity(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Coord.DeleteOpportunity(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export (GET /opportunities/export?format=)
func (h *OpportunityHandler) Export(w http.ResponseWriter, r *http.Request) {
	exportCollection(w, r, h.Coord, usecase.CollectionOpportunities, h.Logger)
}
