package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/usecase"
)

const maxBodyBytes = 1 << 20

var validate = validator.New()

type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "VALIDATION_FAILED",
		Message: "One or more fields are invalid",
		Fields:  fields,
	})
}

// writeUsecaseError maps usecase and entity errors to HTTP statuses.
func writeUsecaseError(w http.ResponseWriter, err error) {
	var vf *usecase.ValidationFailedError
	var de *usecase.DomainError

	switch {
	case errors.As(err, &vf):
		writeFieldErrors(w, vf.Fields())
	case errors.Is(err, entity.ErrBusy):
		writeErrorResponse(w, http.StatusConflict, "BUSY", err.Error())
	case errors.Is(err, entity.ErrLeadAlreadyConverted):
		writeErrorResponse(w, http.StatusConflict, "ALREADY_CONVERTED", err.Error())
	case errors.Is(err, entity.ErrLeadNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Lead not found")
	case errors.Is(err, entity.ErrOpportunityNotFound):
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Opportunity not found")
	case errors.Is(err, entity.ErrInvalidStatus),
		errors.Is(err, entity.ErrInvalidStage),
		errors.Is(err, entity.ErrInvalidSortField):
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
	case usecase.IsRemoteFailure(err):
		writeErrorResponse(w, http.StatusBadGateway, usecase.CodeRemoteFailure, err.Error())
	case errors.As(err, &de):
		writeErrorResponse(w, http.StatusBadRequest, de.Code, de.Message)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorResponse(w, http.StatusServiceUnavailable, "CANCELLED", "Request was cancelled")
	default:
		writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno")
	}
}

// decodeJSON reads a single JSON document into dst and runs its validate tags.
// On failure the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return false
	}
	return checkStruct(w, dst)
}

func checkStruct(w http.ResponseWriter, v any) bool {
	err := validate.Struct(v)
	if err == nil {
		return true
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return false
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[lowerFirst(fe.Field())] = tagMessage(fe)
	}
	writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", joinFields(fields))
	return false
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	}
	return fmt.Sprintf("failed %s", fe.Tag())
}

func joinFields(fields map[string]string) string {
	parts := make([]string, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		parts = append(parts, k+" "+fields[k])
	}
	return strings.Join(parts, "; ")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
