package entitlement

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edvin/agencysites/internal/model"
	"github.com/edvin/agencysites/internal/timestamp"
)

var now = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func tenantCreated(ago time.Duration) *model.Tenant {
	return &model.Tenant{ID: "t1", Slug: "casa", CreatedAt: timestamp.Of(now.Add(-ago))}
}

func sub(status model.SubscriptionStatus, trialEnd any) *model.Subscription {
	return &model.Subscription{Status: status, TrialEndsAt: timestamp.Raw(trialEnd)}
}

var agent = &model.Identity{UserID: "u-1", Email: "owner@casa.example"}

func TestCheckAccess_FreshTenantWithoutSubscription(t *testing.T) {
	e := New()

	d := e.CheckAccess(tenantCreated(10*time.Minute), nil, agent, now)

	assert.True(t, d.HasAccess)
	assert.Equal(t, 14, d.DaysLeft)
	assert.Equal(t, ReasonGracePeriod, d.Reason)
}

func TestCheckAccess_GraceEndsAfterOneHour(t *testing.T) {
	e := New()

	d := e.CheckAccess(tenantCreated(61*time.Minute), nil, agent, now)

	assert.False(t, d.HasAccess)
	assert.Equal(t, 0, d.DaysLeft)
	assert.Equal(t, ReasonNoSubscription, d.Reason)
}

func TestCheckAccess_ExpiredTrial(t *testing.T) {
	e := New()

	d := e.CheckAccess(tenantCreated(30*24*time.Hour), sub(model.SubscriptionTrialing, now.Add(-24*time.Hour)), agent, now)

	assert.False(t, d.HasAccess)
	assert.True(t, d.IsTrial)
	assert.Equal(t, 0, d.DaysLeft)
	assert.Equal(t, ReasonTrialExpired, d.Reason)
}

func TestCheckAccess_MalformedTrialEndReconstructed(t *testing.T) {
	e := New()

	for name, raw := range map[string]any{
		"null":                     nil,
		"garbage":                  "soon",
		"object":                   map[string]any{"when": "later"},
		"overflowing epoch":        float64(1e20),
		"overflowing epoch string": "99999999999999999999",
		"overflowing store object": map[string]any{"seconds": float64(1e15)},
	} {
		t.Run(name, func(t *testing.T) {
			d := e.CheckAccess(tenantCreated(5*24*time.Hour), sub(model.SubscriptionTrialing, raw), agent, now)

			assert.True(t, d.HasAccess)
			assert.True(t, d.IsTrial)
			assert.Equal(t, 9, d.DaysLeft)
			assert.Equal(t, ReasonTrialActive, d.Reason)
		})
	}
}

func TestCheckAccess_TrialEndRepresentations(t *testing.T) {
	e := New()
	end := now.Add(3 * 24 * time.Hour)

	for name, raw := range map[string]any{
		"native":  end,
		"string":  end.Format(time.RFC3339),
		"seconds": float64(end.Unix()),
		"millis":  float64(end.UnixMilli()),
		"object":  map[string]any{"seconds": float64(end.Unix()), "nanoseconds": float64(0)},
	} {
		t.Run(name, func(t *testing.T) {
			d := e.CheckAccess(tenantCreated(11*24*time.Hour), sub(model.SubscriptionTrialing, raw), agent, now)
			assert.True(t, d.HasAccess)
			assert.Equal(t, 3, d.DaysLeft)
		})
	}
}

func TestCheckAccess_PastDueKeepsAccess(t *testing.T) {
	e := New()

	for _, trialEnd := range []any{nil, now.Add(-90 * 24 * time.Hour), "broken"} {
		d := e.CheckAccess(tenantCreated(200*24*time.Hour), sub(model.SubscriptionPastDue, trialEnd), agent, now)
		assert.True(t, d.HasAccess)
		assert.False(t, d.IsTrial)
		assert.Equal(t, ReasonPastDue, d.Reason)
	}
}

func TestCheckAccess_StatusTable(t *testing.T) {
	e := New()
	old := tenantCreated(400 * 24 * time.Hour)

	tests := []struct {
		status model.SubscriptionStatus
		want   bool
		reason string
	}{
		{model.SubscriptionActive, true, ReasonActive},
		{model.SubscriptionPastDue, true, ReasonPastDue},
		{model.SubscriptionCanceled, false, ReasonInactive},
		{model.SubscriptionNone, false, ReasonInactive},
		{model.SubscriptionStatus("paused"), false, ReasonInactive},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := e.CheckAccess(old, sub(tt.status, nil), agent, now)
			assert.Equal(t, tt.want, d.HasAccess)
			assert.Equal(t, tt.reason, d.Reason)
			assert.Equal(t, 0, d.DaysLeft)
		})
	}
}

func TestCheckAccess_OperatorBypass(t *testing.T) {
	e := New("ops@agencysites.dev", "root-user")

	for _, caller := range []*model.Identity{
		{UserID: "x", Email: "OPS@agencysites.dev", EmailVerified: true},
		{UserID: "root-user"},
	} {
		d := e.CheckAccess(tenantCreated(400*24*time.Hour), sub(model.SubscriptionCanceled, nil), caller, now)
		assert.True(t, d.HasAccess)
		assert.Equal(t, OperatorDaysLeft, d.DaysLeft)
		assert.Equal(t, ReasonOperator, d.Reason)
	}

	// Operator check runs before the missing subscription check.
	d := e.CheckAccess(nil, nil, &model.Identity{UserID: "root-user"}, now)
	assert.True(t, d.HasAccess)
}

func TestCheckAccess_NonOperatorNotBypassed(t *testing.T) {
	e := New("ops@agencysites.dev")

	d := e.CheckAccess(tenantCreated(400*24*time.Hour), sub(model.SubscriptionCanceled, nil), &model.Identity{Email: "someone@else.dev"}, now)
	assert.False(t, d.HasAccess)

	d = e.CheckAccess(tenantCreated(400*24*time.Hour), sub(model.SubscriptionCanceled, nil), nil, now)
	assert.False(t, d.HasAccess)

	// A self-asserted email is not enough.
	d = e.CheckAccess(tenantCreated(400*24*time.Hour), sub(model.SubscriptionCanceled, nil), &model.Identity{UserID: "x", Email: "ops@agencysites.dev"}, now)
	assert.False(t, d.HasAccess)
	assert.NotEqual(t, ReasonOperator, d.Reason)

	// Empty identities never match.
	d = New("").CheckAccess(tenantCreated(400*24*time.Hour), sub(model.SubscriptionCanceled, nil), &model.Identity{}, now)
	assert.False(t, d.HasAccess)
}

func TestCheckAccess_UnparseableCreatedAt(t *testing.T) {
	e := New()
	tenant := &model.Tenant{CreatedAt: timestamp.Raw("yesterday-ish")}

	// No grace period without a creation time.
	d := e.CheckAccess(tenant, nil, agent, now)
	assert.False(t, d.HasAccess)

	// Trialing with neither trial end nor created_at cannot be reconstructed.
	d = e.CheckAccess(tenant, sub(model.SubscriptionTrialing, nil), agent, now)
	assert.False(t, d.HasAccess)
	assert.Equal(t, ReasonTrialEndUnknown, d.Reason)

	// A valid trial end still works.
	d = e.CheckAccess(tenant, sub(model.SubscriptionTrialing, now.Add(48*time.Hour)), agent, now)
	assert.True(t, d.HasAccess)
	assert.Equal(t, 2, d.DaysLeft)
}

func TestCheckAccess_MidTransition(t *testing.T) {
	e := New()
	// Status flipped to trialing before trial_ends_at was written.
	d := e.CheckAccess(tenantCreated(2*time.Hour), sub(model.SubscriptionTrialing, nil), agent, now)

	assert.True(t, d.HasAccess)
	assert.Equal(t, 14, d.DaysLeft)
}

func TestCheckAccess_TrialEndingExactlyNow(t *testing.T) {
	d := New().CheckAccess(tenantCreated(20*24*time.Hour), sub(model.SubscriptionTrialing, now), agent, now)

	assert.True(t, d.HasAccess)
	assert.Equal(t, 0, d.DaysLeft)
}

func TestCheckAccess_Concurrent(t *testing.T) {
	e := New("ops@agencysites.dev")
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created := tenantCreated(time.Duration(i) * 24 * time.Hour)
			d := e.CheckAccess(created, sub(model.SubscriptionTrialing, nil), agent, now)
			assert.Equal(t, i <= 14, d.HasAccess, "tenant created %d days ago", i)
		}(i)
	}
	wg.Wait()
}

func TestDaysLeft(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want int
	}{
		{30 * time.Hour, 2},
		{24 * time.Hour, 1},
		{time.Second, 1},
		{0, 0},
		{-5 * time.Hour, 0},
		{9 * 24 * time.Hour, 9},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysLeft(tt.in), tt.in.String())
	}
}
