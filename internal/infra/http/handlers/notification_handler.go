package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/seller-console/internal/entity"
	"github.com/xavierca1/seller-console/internal/usecase"
)

type NotificationHandler struct {
	Center *usecase.NotificationCenter
}

func NewNotificationHandler(center *usecase.NotificationCenter) *NotificationHandler {
	return &NotificationHandler{Center: center}
}

type NotificationsResponse struct {
	Notifications []entity.Notification `json:"notifications"`
}

// List (GET /notifications)
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	items := h.Center.Active()
	if items == nil {
		items = []entity.Notification{}
	}
	writeJSON(w, http.StatusOK, NotificationsResponse{Notifications: items})
}

// Dismiss (DELETE /notifications/{id})
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.Center.Dismiss(chi.URLParam(r, "id")) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
