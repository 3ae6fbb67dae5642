package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/model"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tenantKey   contextKey = "tenant"
	decisionKey contextKey = "access_decision"
)

// TokenValidator turns a bearer token into a caller identity.
type TokenValidator interface {
	ValidateToken(token string) (*model.Identity, error)
}

// Auth returns middleware that validates bearer tokens and injects the caller
// identity into the context. Browsers cannot set headers on websocket
// upgrades, so an access_token query parameter is accepted there.
func Auth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				response.WriteError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			identity, err := validator.ValidateToken(token)
			if err != nil {
				response.WriteError(w, http.StatusUnauthorized, "invalid bearer token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func extractToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		token, ok := strings.CutPrefix(h, "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

// WithIdentity stores the caller identity on ctx.
func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// GetIdentity extracts the caller identity from the request context.
func GetIdentity(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(identityKey).(*model.Identity)
	return id
}
