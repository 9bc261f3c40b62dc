package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/middleware"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/ports"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
}

func NewNotificationHandler(notifications ports.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notifications}
}

// List returns the caller's own notifications, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	notifs, err := h.notificationService.ListForUser(r.Context(), caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifs)
}

type markSeenPayload struct {
	IDs []int64 `json:"ids"`
}

type markSeenResponse struct {
	Updated int64 `json:"updated"`
}

// MarkSeen flips the seen flag on the caller's notifications. Ids
// belonging to someone else are skipped, not rejected.
func (h *NotificationHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var payload markSeenPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.notificationService.MarkSeen(r.Context(), payload.IDs, caller.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markSeenResponse{Updated: updated})
}
