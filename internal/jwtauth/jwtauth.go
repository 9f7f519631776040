// Package jwtauth verifies Auth0-issued access tokens.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the JWT claims from Auth0.
type Claims struct {
	jwt.RegisteredClaims
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
	Name          string `json:"name,omitempty"`
}

// Auth0UserID returns the user ID from the claims (subject).
func (c *Claims) Auth0UserID() string {
	return c.Subject
}

// Config holds Auth0 JWT verification configuration.
type Config struct {
	Domain          string // e.g., "your-tenant.auth0.com"
	Audience        string // e.g., "https://api.mentorhub.io"
	RefreshInterval time.Duration
	// JWKSURL overrides the key set location derived from Domain.
	JWKSURL string
	Logger  *slog.Logger
}

// Verifier handles JWT verification using Auth0.
type Verifier struct {
	keys     keyfunc.Keyfunc
	issuer   string
	audience string
}

// NewVerifier creates a verifier backed by the tenant's JWKS endpoint.
// Keys are refreshed in the background until ctx is cancelled. An
// unreachable endpoint at startup is not fatal; verification fails until
// the first successful refresh.
func NewVerifier(ctx context.Context, cfg Config) (*Verifier, error) {
	domain, err := normalizeDomain(cfg.Domain)
	if err != nil {
		return nil, err
	}
	if cfg.Audience == "" {
		return nil, errors.New("audience is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = fmt.Sprintf("https://%s/.well-known/jwks.json", domain)
	}

	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = 10 * time.Minute
	}

	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: 10 * time.Second},
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			logger.Error("JWKS refresh failed", "error", err, "url", jwksURL)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("failed to create keyfunc: %w", err)
	}

	return &Verifier{
		keys:     k,
		issuer:   fmt.Sprintf("https://%s/", domain),
		audience: cfg.Audience,
	}, nil
}

// NewVerifierWithKeyfunc creates a verifier over a fixed key set.
func NewVerifierWithKeyfunc(kf keyfunc.Keyfunc, domain, audience string) (*Verifier, error) {
	if kf == nil {
		return nil, errors.New("keyfunc is required")
	}
	domain, err := normalizeDomain(domain)
	if err != nil {
		return nil, err
	}
	if audience == "" {
		return nil, errors.New("audience is required")
	}
	return &Verifier{
		keys:     kf,
		issuer:   fmt.Sprintf("https://%s/", domain),
		audience: audience,
	}, nil
}

func normalizeDomain(domain string) (string, error) {
	if domain == "" {
		return "", errors.New("domain is required")
	}
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimSuffix(domain, "/"), nil
}

// Verify verifies a JWT token and returns the claims.
// Only RS256 tokens with a matching issuer and audience and an expiry
// are accepted.
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, v.keys.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return claims, nil
}

type contextKey string

const ClaimsContextKey contextKey = "jwtclaims"

// WithClaims returns a copy of ctx carrying the verified claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ClaimsContextKey, claims)
}

// GetClaims retrieves JWT claims from the request context.
func GetClaims(ctx context.Context) *Claims {
	claims, _ := ctx.Value(ClaimsContextKey).(*Claims)
	return claims
}
