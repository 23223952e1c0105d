package models

import "github.com/google/uuid"

// Widget is an embeddable chat widget. PublicKey is the unguessable key the
// embed script uses to fetch configuration without a session; APIKeyCiphertext
// holds the tenant's AI-provider key encrypted at rest.
type Widget struct {
	Base
	TenantID         uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
	Name             string    `gorm:"not null" json:"name"`
	PublicKey        string    `gorm:"uniqueIndex;not null" json:"public_key"`
	Greeting         string    `json:"greeting"`
	AccentColor      string    `gorm:"default:'#4f46e5'" json:"accent_color"`
	ModelProvider    string    `gorm:"default:'openai'" json:"model_provider"`
	APIKeyCiphertext string    `json:"-"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

func (Widget) TableName() string {
	return "widgets"
}
