package handlers

import (
	"net/http"

	"github.com/xavierca1/seller-console/internal/usecase"
)

// ValidationHandler checks a form without saving it, so clients can show
// field errors as the user types.
type ValidationHandler struct{}

func NewValidationHandler() *ValidationHandler {
	return &ValidationHandler{}
}

type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// Lead (POST /validate/lead)
func (h *ValidationHandler) Lead(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}
	writeValidation(w, usecase.ValidateLead(input))
}

// Opportunity (POST /validate/opportunity)
func (h *ValidationHandler) Opportunity(w http.ResponseWriter, r *http.Request) {
	var input usecase.OpportunityInput
	if !decodeJSON(w, r, &input) {
		return
	}
	writeValidation(w, usecase.ValidateOpportunity(input))
}

func writeValidation(w http.ResponseWriter, errs []usecase.ValidationError) {
	writeJSON(w, http.StatusOK, ValidationResponse{
		Valid:  len(errs) == 0,
		Errors: usecase.ErrorsToMap(errs),
	})
}
