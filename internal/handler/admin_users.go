package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mentorhub/internal/auth"
	"mentorhub/internal/user"
)

// AdminUsersHandler handles admin operations on users.
type AdminUsersHandler struct {
	manager *user.Manager
	logger  *slog.Logger
}

// NewAdminUsersHandler creates a new admin users handler.
func NewAdminUsersHandler(manager *user.Manager, logger *slog.Logger) *AdminUsersHandler {
	return &AdminUsersHandler{manager: manager, logger: logger}
}

// setRolesRequest is the JSON request for replacing a user's roles.
type setRolesRequest struct {
	Roles []string `json:"roles"`
}

// SetRoles handles PUT /api/v1/admin/users/{userId}/roles
func (h *AdminUsersHandler) SetRoles(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	var req setRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		auth.WriteJSONError(w, http.StatusBadRequest, "invalid JSON", auth.TypeInvalidRequest)
		return
	}

	identity, err := h.manager.SetRoles(r.Context(), id, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidRole):
			auth.WriteJSONError(w, http.StatusBadRequest, err.Error(), auth.TypeInvalidRequest)
		case errors.Is(err, user.ErrNotFound):
			auth.WriteJSONError(w, http.StatusNotFound, "user not found", auth.TypeNotFound)
		default:
			h.logger.Error("failed to set roles", "error", err, "user_id", id)
			auth.WriteInternalError(w)
		}
		return
	}

	h.logger.Info("user roles updated", "user_id", id, "roles", identity.Roles.String())
	writeSuccess(w, http.StatusOK, identity)
}
