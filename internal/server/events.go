package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/khataplus/khataplus/internal/middleware"
)

// handleEvents streams change notifications over server-sent events. The
// client refetches the affected table when an event arrives; the stream
// carries no record data itself.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	userID := middleware.GetUserID(r.Context())
	scope, err := s.inventory.ActiveScope(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	scopeKeys := []string{userID}
	if scope.GroupID != "" {
		scopeKeys = append(scopeKeys, scope.GroupID)
	}
	events, cancel := s.hub.Subscribe(scopeKeys...)
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
		case event := <-events:
			payload, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
