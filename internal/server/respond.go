package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/khataplus/khataplus/internal/service"
)

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// respondError maps service sentinels to HTTP status codes. Unrecognized
// errors become opaque 500s so internals never leak to clients.
func respondError(w http.ResponseWriter, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		slog.Error("request failed internally", "error", err)
		respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	respond(w, status, map[string]string{"error": err.Error()})
}

func decode(r *http.Request, into interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return service.ErrInvalid
	}
	return nil
}
