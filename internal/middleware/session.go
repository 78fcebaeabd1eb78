package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"campusconnect/internal/auth"
	"campusconnect/internal/domain"
)

type claimsContextKey struct{}

// SessionVerifier validates a raw session token. *auth.Sessions satisfies it.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*auth.Claims, error)
}

// TokenFromRequest reads the session cookie, then an Authorization bearer header.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	h := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireSession rejects requests without a valid session with 401 and
// stores the claims in the context otherwise.
func RequireSession(v SessionVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cookieName)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "not_authorized", "session required")
				return
			}
			claims, err := v.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrStorage) {
					zerolog.Ctx(r.Context()).Error().Err(err).Msg("session: verification unavailable")
					writeError(w, http.StatusInternalServerError, "internal", "internal error")
					return
				}
				writeError(w, http.StatusUnauthorized, "not_authorized", "invalid or expired session")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole answers 403 when the session role differs. It must run after RequireSession.
func RequireRole(role domain.AccountRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, http.StatusUnauthorized, "not_authorized", "session required")
				return
			}
			if claims.Role != role {
				writeError(w, http.StatusForbidden, "forbidden", "insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is RequireRole for administrators.
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin)(next)
}

func ContextWithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) *auth.Claims {
	c, _ := ctx.Value(claimsContextKey{}).(*auth.Claims)
	return c
}
