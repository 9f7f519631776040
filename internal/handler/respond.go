package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"mentorhub/internal/auth"
)

// envelope is the body of every successful API response.
type envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// writeSuccess writes {"success": true, "data": data}. A nil data omits
// the field.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// parseUUIDParam extracts a UUID path parameter. Malformed values yield
// a 400 response and ok=false.
func parseUUIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		auth.WriteJSONError(w, http.StatusBadRequest, "invalid "+name, auth.TypeInvalidRequest)
		return uuid.Nil, false
	}
	return id, true
}
