package handler

import (
	"fmt"
	"net/http"

	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/middleware"
	"github.com/campus-hub/scolarite/student-docs-service/internal/adapters/realtime"
	"github.com/campus-hub/scolarite/student-docs-service/internal/core/services"
)

// EventsHandler streams channel messages to connected clients over SSE.
// Staff attach to the shared staff channel, students to their own.
type EventsHandler struct {
	hub *realtime.Hub
}

func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	channel := services.ClientChannel(caller.ID)
	if caller.Role.IsStaff() {
		channel = services.StaffChannel
	}

	messages, cancel := h.hub.Subscribe(channel)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
