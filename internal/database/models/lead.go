package models

import "github.com/google/uuid"

type Lead struct {
	Base
	TenantID uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
	WidgetID uuid.UUID `gorm:"type:uuid;index" json:"widget_id"`
	Email    string    `gorm:"index" json:"email"`
	Name     string    `json:"name"`
	Notes    string    `json:"notes"`

	// Relationships
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"-"`
	Widget *Widget `gorm:"foreignKey:WidgetID" json:"-"`
}

func (Lead) TableName() string {
	return "leads"
}
