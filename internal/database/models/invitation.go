package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// Invitation authorizes one email address to join a tenant. The token is a
// pure lookup key with no embedded claims; expiry is evaluated at read time,
// never by a background sweep.
type Invitation struct {
	Base
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	Email     string    `gorm:"index;not null" json:"email"`
	Role      string    `gorm:"not null" json:"role"`
	InvitedBy uuid.UUID `gorm:"type:uuid" json:"invited_by"`
	Status    string    `gorm:"default:'pending'" json:"status"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`

	// Relationships
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// IsExpired reports whether the invitation has passed its expiry.
func (i *Invitation) IsExpired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
