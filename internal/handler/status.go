package handler

import (
	"net/http"

	"mentorhub/internal/config"
)

// Version is set at build time with -ldflags "-X mentorhub/internal/handler.Version=...".
var Version = "0.1.0"

func statusHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":     "mentorhub",
			"version":     Version,
			"environment": cfg.Environment,
			"status":      "operational",
		})
	}
}
