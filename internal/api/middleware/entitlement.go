package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/metrics"
	"github.com/edvin/agencysites/internal/model"
)

// AccessChecker computes entitlement decisions.
type AccessChecker interface {
	CheckAccess(tenant *model.Tenant, sub *model.Subscription, caller *model.Identity, now time.Time) model.AccessDecision
}

// Decide evaluates access for the tenant and caller on ctx and records the
// outcome.
func Decide(ctx context.Context, checker AccessChecker, now time.Time) model.AccessDecision {
	tenant := GetTenant(ctx)
	var sub *model.Subscription
	if tenant != nil {
		sub = tenant.Subscription
	}
	d := checker.CheckAccess(tenant, sub, GetIdentity(ctx), now)
	metrics.EntitlementDecisions.WithLabelValues(d.Reason).Inc()
	return d
}

// Entitlement gates admin routes on the tenant's subscription. Denied
// requests get 402 with the decision so the client can show why.
func Entitlement(checker AccessChecker, clock func() time.Time) func(http.Handler) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(r.Context(), checker, clock())
			if !d.HasAccess {
				zerolog.Ctx(r.Context()).Info().Str("reason", d.Reason).Msg("admin access denied")
				response.WriteJSON(w, http.StatusPaymentRequired, d)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), decisionKey, d)))
		})
	}
}

// GetDecision returns the decision recorded by the Entitlement middleware.
func GetDecision(ctx context.Context) (model.AccessDecision, bool) {
	d, ok := ctx.Value(decisionKey).(model.AccessDecision)
	return d, ok
}
