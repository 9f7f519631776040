package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"mentorhub/internal/auth"
	"mentorhub/internal/favorites"
	"mentorhub/internal/jwtauth"
	"mentorhub/internal/list"
)

// FavoritesHandler serves a user's favorite mentors.
type FavoritesHandler struct {
	svc    *favorites.Service
	logger *slog.Logger
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(svc *favorites.Service, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{svc: svc, logger: logger}
}

// emptyFavorites is returned when the user has no favorites list yet.
type emptyFavorites struct {
	Mentors []list.MentorRef `json:"mentors"`
}

// Toggle handles PUT|POST /api/v1/lists/favorites/{userId}/{mentorId}
func (h *FavoritesHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	targetID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}
	mentorID, ok := parseUUIDParam(w, r, "mentorId")
	if !ok {
		return
	}

	added, err := h.svc.Toggle(r.Context(), jwtauth.GetClaims(r.Context()), targetID, mentorID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	recordToggle(added)
	h.logger.Info("favorite toggled",
		"target_id", targetID, "mentor_id", mentorID, "added", added)

	writeSuccess(w, http.StatusOK, nil)
}

// List handles GET /api/v1/lists/favorites/{userId}
func (h *FavoritesHandler) List(w http.ResponseWriter, r *http.Request) {
	targetID, ok := parseUUIDParam(w, r, "userId")
	if !ok {
		return
	}

	l, err := h.svc.List(r.Context(), jwtauth.GetClaims(r.Context()), targetID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if l == nil {
		writeSuccess(w, http.StatusOK, emptyFavorites{Mentors: []list.MentorRef{}})
		return
	}
	writeSuccess(w, http.StatusOK, l)
}

func (h *FavoritesHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, favorites.ErrAuthenticationRequired):
		auth.WriteJSONError(w, http.StatusUnauthorized, "authentication required", auth.TypeAuthentication)
	case errors.Is(err, favorites.ErrInvalidTarget):
		auth.WriteJSONError(w, http.StatusBadRequest, err.Error(), auth.TypeInvalidRequest)
	case errors.Is(err, favorites.ErrUnauthorizedAction):
		auth.WriteJSONError(w, http.StatusUnauthorized, "not allowed to act on this user's favorites", auth.TypeAuthorization)
	default:
		h.logger.Error("favorites request failed", "error", err, "path", r.URL.Path)
		auth.WriteInternalError(w)
	}
}
