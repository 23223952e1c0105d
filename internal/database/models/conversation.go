package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is a visitor chat thread. Messages are stored as a JSON blob;
// the backend never interprets individual turns.
type Conversation struct {
	Base
	TenantID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"tenant_id"`
	WidgetID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"widget_id"`
	LeadID        *uuid.UUID `gorm:"type:uuid;index" json:"lead_id,omitempty"`
	VisitorKey    string     `gorm:"index" json:"visitor_key"`
	Messages      string     `gorm:"type:text;default:'[]'" json:"messages"`
	StartedAt     time.Time  `json:"started_at"`
	LastMessageAt time.Time  `json:"last_message_at"`

	// Relationships
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
	Widget *Widget `gorm:"foreignKey:WidgetID" json:"-"`
	Lead   *Lead   `gorm:"foreignKey:LeadID" json:"-"`
}

func (Conversation) TableName() string {
	return "conversations"
}
