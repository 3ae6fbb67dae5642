package model

import "github.com/edvin/agencysites/internal/timestamp"

// SubscriptionStatus is the billing state written by the billing provider.
type SubscriptionStatus string

const (
	SubscriptionTrialing SubscriptionStatus = "trialing"
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionPastDue  SubscriptionStatus = "past_due"
	SubscriptionCanceled SubscriptionStatus = "canceled"
	SubscriptionNone     SubscriptionStatus = "none"
)

type Subscription struct {
	Status      SubscriptionStatus `json:"status" yaml:"status"`
	PlanID      string             `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	TrialEndsAt timestamp.Value    `json:"trial_ends_at" yaml:"trial_ends_at"`
}

// AccessDecision is derived on every check and never stored.
type AccessDecision struct {
	HasAccess bool   `json:"has_access"`
	IsTrial   bool   `json:"is_trial"`
	DaysLeft  int    `json:"days_left"`
	Reason    string `json:"reason"`
}
