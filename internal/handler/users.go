package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"mentorhub/internal/auth"
	"mentorhub/internal/jwtauth"
	"mentorhub/internal/user"
)

// UsersHandler serves the caller's own identity record.
type UsersHandler struct {
	manager *user.Manager
	logger  *slog.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(manager *user.Manager, logger *slog.Logger) *UsersHandler {
	return &UsersHandler{manager: manager, logger: logger}
}

// Sync handles POST /api/v1/users/sync
// It records the caller's profile from the verified token. Roles of an
// existing identity are left untouched.
func (h *UsersHandler) Sync(w http.ResponseWriter, r *http.Request) {
	claims := jwtauth.GetClaims(r.Context())
	if claims == nil {
		auth.WriteUnauthorized(w)
		return
	}

	identity, err := h.manager.UpsertFromClaims(r.Context(), claims)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidAuth0ID):
			auth.WriteUnauthorized(w)
		case errors.Is(err, user.ErrInvalidEmail):
			auth.WriteJSONError(w, http.StatusBadRequest, "token carries no email claim", auth.TypeInvalidRequest)
		default:
			h.logger.Error("failed to sync user", "error", err)
			auth.WriteInternalError(w)
		}
		return
	}

	writeSuccess(w, http.StatusOK, identity)
}

// Me handles GET /api/v1/users/me
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := jwtauth.GetClaims(r.Context())
	if claims == nil {
		auth.WriteUnauthorized(w)
		return
	}

	identity, err := h.manager.GetByAuth0ID(r.Context(), claims.Auth0UserID())
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			auth.WriteJSONError(w, http.StatusNotFound, "user not found", auth.TypeNotFound)
			return
		}
		h.logger.Error("failed to get user", "error", err)
		auth.WriteInternalError(w)
		return
	}

	writeSuccess(w, http.StatusOK, identity)
}
