// Package middleware provides HTTP middleware for mentorhub.
package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"mentorhub/internal/auth"
	"mentorhub/internal/jwtauth"
	"mentorhub/internal/user"
)

// TokenVerifier verifies a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*jwtauth.Claims, error)
}

// IdentityLookup resolves the user record behind a verified token.
type IdentityLookup interface {
	GetByAuth0ID(ctx context.Context, auth0ID string) (*user.Identity, error)
}

// RequireAuth returns middleware that verifies the bearer token and
// attaches its claims to the request context.
//
// Error responses:
//   - 401 Unauthorized: missing, malformed or unverifiable token
func RequireAuth(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.ExtractBearerToken(r)
			if err != nil {
				auth.WriteUnauthorized(w)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("JWT verification failed", "error", err, "remote_addr", r.RemoteAddr)
				auth.WriteUnauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwtauth.WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole returns middleware that admits only callers whose user
// record holds role. It must run after RequireAuth.
//
// Error responses:
//   - 401 Unauthorized: no claims, or no user record for the caller
//   - 403 Forbidden: the caller lacks role
//   - 500 Internal Server Error: lookup failed
func RequireRole(users IdentityLookup, role user.Role, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := jwtauth.GetClaims(r.Context())
			if claims == nil {
				auth.WriteUnauthorized(w)
				return
			}

			caller, err := users.GetByAuth0ID(r.Context(), claims.Auth0UserID())
			if err != nil {
				if errors.Is(err, user.ErrNotFound) {
					auth.WriteUnauthorized(w)
					return
				}
				logger.Error("failed to resolve caller", "error", err)
				auth.WriteInternalError(w)
				return
			}

			if !caller.HasRole(role) {
				auth.WriteForbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
