// file: internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"personahub/internal/contextutils"
	"personahub/internal/response"
	"personahub/internal/services"

	"go.uber.org/zap"
)

// HeaderXProfileID selects the acting profile for an authenticated request
const HeaderXProfileID = "X-Profile-ID"

// Authenticator validates bearer tokens and resolves the acting profile
type Authenticator struct {
	auth     services.AuthService
	profiles services.ProfileService
	builder  *response.Builder
	logger   *zap.Logger
}

// NewAuthenticator creates an authenticator middleware factory
func NewAuthenticator(
	auth services.AuthService,
	profiles services.ProfileService,
	builder *response.Builder,
	logger *zap.Logger,
) *Authenticator {
	return &Authenticator{
		auth:     auth,
		profiles: profiles,
		builder:  builder,
		logger:   logger,
	}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// account ID in the context
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			a.builder.WriteError(w, r, services.NewUnauthorizedError("missing bearer token"))
			return
		}

		accountID, err := a.auth.ValidateAccessToken(r.Context(), token)
		if err != nil {
			a.builder.WriteError(w, r, services.NewUnauthorizedError("invalid or expired token"))
			return
		}

		ctx := contextutils.WithAccountID(r.Context(), accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveProfile reads the acting profile from the X-Profile-ID header and
// verifies the authenticated account owns it. Without the header the
// account's default profile is used.
func (a *Authenticator) ResolveProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := contextutils.GetAccountID(r.Context())
		if accountID == 0 {
			a.builder.WriteError(w, r, services.NewUnauthorizedError("authentication required"))
			return
		}

		var profileID int64
		if header := r.Header.Get(HeaderXProfileID); header != "" {
			parsed, err := strconv.ParseInt(header, 10, 64)
			if err != nil || parsed <= 0 {
				a.builder.WriteError(w, r, services.NewValidationError("invalid profile header", err))
				return
			}

			// Ownership check; foreign profiles surface as not found
			if _, err := a.profiles.GetProfile(r.Context(), accountID, parsed); err != nil {
				a.builder.WriteError(w, r, err)
				return
			}
			profileID = parsed
		} else {
			profiles, err := a.profiles.ListProfiles(r.Context(), accountID)
			if err != nil || len(profiles) == 0 {
				a.builder.WriteError(w, r, services.NewNotFoundError("no profile available for account"))
				return
			}
			// ListProfiles orders the default first
			profileID = profiles[0].ID
		}

		ctx := contextutils.WithProfileID(r.Context(), profileID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalProfile resolves the acting profile for viewer decoration on
// public reads. It never rejects: anonymous requests and unresolvable
// headers just pass through without a profile.
func (a *Authenticator) OptionalProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID := contextutils.GetAccountID(r.Context())
		if accountID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		var profileID int64
		if header := r.Header.Get(HeaderXProfileID); header != "" {
			if parsed, err := strconv.ParseInt(header, 10, 64); err == nil && parsed > 0 {
				if _, err := a.profiles.GetProfile(r.Context(), accountID, parsed); err == nil {
					profileID = parsed
				}
			}
		}
		if profileID == 0 {
			if profiles, err := a.profiles.ListProfiles(r.Context(), accountID); err == nil && len(profiles) > 0 {
				profileID = profiles[0].ID
			}
		}

		if profileID != 0 {
			r = r.WithContext(contextutils.WithProfileID(r.Context(), profileID))
		}
		next.ServeHTTP(w, r)
	})
}

// OptionalAuth stores the account ID when a valid token is present but
// never rejects the request
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if accountID, err := a.auth.ValidateAccessToken(r.Context(), token); err == nil {
				r = r.WithContext(contextutils.WithAccountID(r.Context(), accountID))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
