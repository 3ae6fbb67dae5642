package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/model"
)

// TenantGetter reads a tenant straight from the store.
type TenantGetter interface {
	GetBySlug(ctx context.Context, slug string) (*model.Tenant, error)
}

// OperatorChecker reports whether the caller is a platform operator.
type OperatorChecker interface {
	IsOperator(id *model.Identity) bool
}

// Tenant loads the tenant named by the {slug} URL parameter and checks the
// caller may edit it. Owners, identities granted the tenant and operators
// pass.
func Tenant(tenants TenantGetter, operators OperatorChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			slug := chi.URLParam(r, "slug")
			tenant, err := tenants.GetBySlug(r.Context(), slug)
			if err != nil {
				zerolog.Ctx(r.Context()).Debug().Err(err).Str("slug", slug).Msg("load tenant for admin request")
				response.WriteServiceError(w, err)
				return
			}

			id := GetIdentity(r.Context())
			if !canEdit(id, tenant, operators) {
				response.WriteError(w, http.StatusForbidden, "no access to this tenant")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithTenant(r.Context(), tenant)))
		})
	}
}

func canEdit(id *model.Identity, t *model.Tenant, operators OperatorChecker) bool {
	if id == nil {
		return false
	}
	if operators != nil && operators.IsOperator(id) {
		return true
	}
	if t.OwnerID != "" && t.OwnerID == id.UserID {
		return true
	}
	return id.CanEdit(t.ID)
}

// WithTenant stores the tenant on ctx.
func WithTenant(ctx context.Context, t *model.Tenant) context.Context {
	return context.WithValue(ctx, tenantKey, t)
}

// GetTenant extracts the tenant loaded by the Tenant middleware.
func GetTenant(ctx context.Context) *model.Tenant {
	t, _ := ctx.Value(tenantKey).(*model.Tenant)
	return t
}
