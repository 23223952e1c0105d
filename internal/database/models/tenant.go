package models

import "time"

// Subscription status values mirror what the Stripe sync process persists.
const (
	SubscriptionActive     = "active"
	SubscriptionTrialing   = "trialing"
	SubscriptionPastDue    = "past_due"
	SubscriptionCanceled   = "canceled"
	SubscriptionUnpaid     = "unpaid"
	SubscriptionIncomplete = "incomplete"
)

type Tenant struct {
	Base
	Name               string     `gorm:"not null" json:"name"`
	Plan               string     `gorm:"default:'starter'" json:"plan"` // starter, growth, scale
	SubscriptionStatus string     `gorm:"default:'trialing'" json:"subscription_status"`
	StripeCustomerID   *string    `gorm:"uniqueIndex" json:"-"`
	StripeSubID        *string    `json:"-"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end,omitempty"`

	// Relationships
	Users         []User         `gorm:"foreignKey:TenantID" json:"-"`
	Widgets       []Widget       `gorm:"foreignKey:TenantID" json:"-"`
	Leads         []Lead         `gorm:"foreignKey:TenantID" json:"-"`
	Conversations []Conversation `gorm:"foreignKey:TenantID" json:"-"`
}

func (Tenant) TableName() string {
	return "tenants"
}
