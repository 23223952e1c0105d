package billing

import (
	"time"

	"github.com/chatlift/chatlift/internal/database/models"
)

// PauseReason explains why a tenant's widgets are not being served.
type PauseReason string

const (
	ReasonTrialExpired         PauseReason = "trial_expired"
	ReasonSubscriptionInactive PauseReason = "subscription_inactive"
)

// Decision is the externally visible serving state for a tenant. Both pause
// reasons map to the same "paused" behavior on the widget endpoint; the reason
// is kept for the dashboard.
type Decision struct {
	Serve  bool        `json:"serve"`
	Reason PauseReason `json:"reason,omitempty"`
}

// IsActive reports whether the subscription status grants access on its own.
func IsActive(status string) bool {
	return status == models.SubscriptionActive || status == models.SubscriptionTrialing
}

// IsTrialExpired reports whether trial-based access has run out: a trialing
// tenant past its trial end, or a tenant in a non-active state with no future
// trial override. Both are distinct reasons to lose access; callers map them
// to one paused decision.
func IsTrialExpired(trialEndsAt *time.Time, status string, now time.Time) bool {
	if status == models.SubscriptionTrialing {
		return trialEndsAt != nil && now.After(*trialEndsAt)
	}
	if IsActive(status) {
		return false
	}
	return trialEndsAt == nil || now.After(*trialEndsAt)
}

// ServingDecision derives the serve/pause state from the tenant's persisted
// billing fields. Pure function of its inputs; evaluated lazily per request,
// never by a background sweep.
func ServingDecision(tenant *models.Tenant, now time.Time) Decision {
	if IsTrialExpired(tenant.TrialEndsAt, tenant.SubscriptionStatus, now) {
		reason := ReasonSubscriptionInactive
		if tenant.SubscriptionStatus == models.SubscriptionTrialing {
			reason = ReasonTrialExpired
		}
		return Decision{Serve: false, Reason: reason}
	}

	if IsActive(tenant.SubscriptionStatus) {
		return Decision{Serve: true}
	}

	// Non-active status but a trial override still in the future.
	if tenant.TrialEndsAt != nil && now.Before(*tenant.TrialEndsAt) {
		return Decision{Serve: true}
	}

	return Decision{Serve: false, Reason: ReasonSubscriptionInactive}
}
