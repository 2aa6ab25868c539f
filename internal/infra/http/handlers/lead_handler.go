package handlers

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/infra/fileio"
	"github.com/xavierca1/seller-console/internal/usecase"
)

const maxUploadBytes = 10 << 20

type LeadHandler struct {
	Coord  *usecase.Coordinator
	Ctrl   *usecase.Controller
	Logger *zap.Logger
}

func NewLeadHandler(coord *usecase.Coordinator, ctrl *usecase.Controller, logger *zap.Logger) *LeadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeadHandler{Coord: coord, Ctrl: ctrl, Logger: logger}
}

// List (GET /leads). The console keeps a single view: status, sort and page
// given here are stored server-wide and seen by every client.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q, ok := parseListQuery(w, r, "status")
	if !ok {
		return
	}

	out, err := usecase.ListLeads(r.Context(), h.Ctrl, usecase.LeadQuery{
		Search: q.Search,
		Status: q.Filter,
		Sort:   q.sortConfig(),
		Page:   q.page(),
	})
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// Get (GET /leads/{id})
func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, found := h.Ctrl.Get().FindLead(chi.URLParam(r, "id"))
	if !found {
		writeUsecaseError(w, entity.ErrLeadNotFound)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Create (POST /leads)
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.Coord.CreateLead(r.Context(), input)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// Update (PATCH /leads/{id})
func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.IsEmpty() {
		writeErrorResponse(w, http.StatusBadRequest, "EMPTY_PATCH", "Nothing to update")
		return
	}

	lead, err := h.Coord.UpdateLead(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// Delete (DELETE /leads/{id})
func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Coord.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Convert (POST /leads/{id}/convert)
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	var form usecase.OpportunityInput
	if !decodeJSON(w, r, &form) {
		return
	}

	opp, err := h.Coord.ConvertLead(r.Context(), chi.URLParam(r, "id"), form)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, opp)
}

// Import (POST /leads/import, multipart field "file")
func (h *LeadHandler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_FILE", "Multipart field \"file\" is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILE", "Could not read the uploaded file")
		return
	}

	res, err := h.Coord.ImportLeads(r.Context(), header.Filename, content)
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) && de.Code == "INVALID_FILE" {
			writeJSON(w, http.StatusBadRequest, res)
			return
		}
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Export (GET /leads/export?format=)
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	exportCollection(w, r, h.Coord, usecase.CollectionLeads, h.Logger)
}

type ExportQuery struct {
	Format string `validate:"omitempty,oneof=json csv xlsx excel"`
}

// exportCollection renders into memory first so a failure still gets a
// JSON error instead of a truncated download.
func exportCollection(w http.ResponseWriter, r *http.Request, coord *usecase.Coordinator, collection string, logger *zap.Logger) {
	q := ExportQuery{Format: r.URL.Query().Get("format")}
	if !checkStruct(w, q) {
		return
	}
	format, err := fileio.ParseFormat(q.Format)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FORMAT", err.Error())
		return
	}

	var buf bytes.Buffer
	if err := coord.Export(r.Context(), &buf, collection, format); err != nil {
		writeUsecaseError(w, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+format.FileName(collection)+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn("⚠️ falha ao enviar exportação", zap.String("collection", collection), zap.Error(err))
	}
}
