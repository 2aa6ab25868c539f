package handlers

import (
	"net/http"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/usecase"
)

// ViewHandler changes the persisted list view: status/stage filters and
// sort configs. The search text only lives in memory.
type ViewHandler struct {
	Ctrl *usecase.Controller
}

func NewViewHandler(ctrl *usecase.Controller) *ViewHandler {
	return &ViewHandler{Ctrl: ctrl}
}

type LeadFiltersRequest struct {
	Status *string `json:"status"`
	Search *string `json:"search"`
}

type OpportunityFiltersRequest struct {
	Stage  *string `json:"stage"`
	Search *string `json:"search"`
}

type SortRequest struct {
	Field     string `json:"field" validate:"required"`
	Direction string `json:"direction" validate:"required,oneof=asc desc"`
}

func (s SortRequest) config() *entity.SortConfig {
	return &entity.SortConfig{Field: s.Field, Direction: entity.SortDirection(s.Direction)}
}

// LeadFilters (PUT /filters/leads)
func (h *ViewHandler) LeadFilters(w http.ResponseWriter, r *http.Request) {
	var req LeadFiltersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := usecase.ListLeads(r.Context(), h.Ctrl, usecase.LeadQuery{Status: req.Status, Search: req.Search})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// OpportunityFilters (PUT /filters/opportunities)
func (h *ViewHandler) OpportunityFilters(w http.ResponseWriter, r *http.Request) {
	var req OpportunityFiltersRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := usecase.ListOpportunities(r.Context(), h.Ctrl, usecase.OpportunityQuery{Stage: req.Stage, Search: req.Search})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// LeadSort (PUT /sort/leads)
func (h *ViewHandler) LeadSort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := usecase.ListLeads(r.Context(), h.Ctrl, usecase.LeadQuery{Sort: req.config()})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// OpportunitySort (PUT /sort/opportunities)
func (h *ViewHandler) OpportunitySort(w http.ResponseWriter, r *http.Request) {
	var req SortRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := usecase.ListOpportunities(r.Context(), h.Ctrl, usecase.OpportunityQuery{Sort: req.config()})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
