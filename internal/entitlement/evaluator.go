// Package entitlement decides whether a tenant may use the administrative
// backend and how many trial days it has left.
//
// Decisions are recomputed on every call from the tenant's current
// subscription snapshot. Nothing is cached, so a status change written by
// the billing provider takes effect on the next check.
package entitlement

import (
	"strings"
	"time"

	"github.com/edvin/agencysites/internal/model"
)

const (
	// TrialLength is the trial granted at signup.
	TrialLength = 14 * 24 * time.Hour
	// GracePeriod covers the window after signup in which the subscription
	// record may not have been written yet.
	GracePeriod = time.Hour
	// OperatorDaysLeft is reported for platform operators.
	OperatorDaysLeft = 9999

	day = 24 * time.Hour
)

// Decision reasons, reported for logs and metrics.
const (
	ReasonOperator        = "operator"
	ReasonGracePeriod     = "grace_period"
	ReasonNoSubscription  = "no_subscription"
	ReasonTrialActive     = "trial_active"
	ReasonTrialExpired    = "trial_expired"
	ReasonTrialEndUnknown = "trial_end_unknown"
	ReasonActive          = "active"
	ReasonPastDue         = "past_due"
	ReasonInactive        = "inactive"
)

// Evaluator computes access decisions. It holds only the operator list and
// is safe for concurrent use.
type Evaluator struct {
	operators map[string]bool
}

// New returns an Evaluator that bypasses all checks for the given operator
// identities (user ids or verified emails, compared case-insensitively).
func New(operators ...string) *Evaluator {
	e := &Evaluator{operators: make(map[string]bool, len(operators))}
	for _, op := range operators {
		if op = normalize(op); op != "" {
			e.operators[op] = true
		}
	}
	return e
}

// IsOperator reports whether the identity is a platform operator. Emails
// only count when the identity provider marked them verified.
func (e *Evaluator) IsOperator(id *model.Identity) bool {
	if id == nil {
		return false
	}
	if e.operators[normalize(id.UserID)] {
		return true
	}
	return id.EmailVerified && e.operators[normalize(id.Email)]
}

// CheckAccess decides backend access for tenant at now. The subscription is
// passed separately because it may arrive ahead of or behind the rest of the
// tenant document.
func (e *Evaluator) CheckAccess(tenant *model.Tenant, sub *model.Subscription, caller *model.Identity, now time.Time) model.AccessDecision {
	if e.IsOperator(caller) {
		return model.AccessDecision{HasAccess: true, DaysLeft: OperatorDaysLeft, Reason: ReasonOperator}
	}

	var (
		createdAt  time.Time
		hasCreated bool
	)
	if tenant != nil {
		if t, err := tenant.CreatedAt.Time(); err == nil {
			createdAt, hasCreated = t, true
		}
	}

	withinGrace := hasCreated && now.Sub(createdAt) < GracePeriod
	if withinGrace {
		return model.AccessDecision{
			HasAccess: true,
			IsTrial:   true,
			DaysLeft:  int(TrialLength / day),
			Reason:    ReasonGracePeriod,
		}
	}

	if sub == nil {
		return model.AccessDecision{Reason: ReasonNoSubscription}
	}

	trialing := sub.Status == model.SubscriptionTrialing
	trialEnd, hasTrialEnd := resolveTrialEnd(sub, trialing, createdAt, hasCreated)

	var remaining time.Duration
	if hasTrialEnd {
		remaining = trialEnd.Sub(now)
	}
	decision := model.AccessDecision{
		IsTrial:  trialing,
		DaysLeft: DaysLeft(remaining),
	}

	switch sub.Status {
	case model.SubscriptionTrialing:
		switch {
		case !hasTrialEnd:
			decision.Reason = ReasonTrialEndUnknown
		case remaining >= 0 || withinGrace:
			decision.HasAccess = true
			decision.Reason = ReasonTrialActive
		default:
			decision.Reason = ReasonTrialExpired
		}
	case model.SubscriptionActive:
		decision.HasAccess = true
		decision.Reason = ReasonActive
	case model.SubscriptionPastDue:
		decision.HasAccess = true
		decision.Reason = ReasonPastDue
	default:
		decision.Reason = ReasonInactive
	}
	return decision
}

// resolveTrialEnd parses the stored trial end. A trialing subscription
// whose end is missing or malformed gets created_at + TrialLength.
func resolveTrialEnd(sub *model.Subscription, trialing bool, createdAt time.Time, hasCreated bool) (time.Time, bool) {
	if t, err := sub.TrialEndsAt.Time(); err == nil {
		return t, true
	}
	if trialing && hasCreated {
		return createdAt.Add(TrialLength), true
	}
	return time.Time{}, false
}

// DaysLeft rounds remaining up to whole days and floors at zero: 30 hours
// left is 2 days.
func DaysLeft(remaining time.Duration) int {
	if remaining <= 0 {
		return 0
	}
	days := remaining / day
	if remaining%day != 0 {
		days++
	}
	return int(days)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
