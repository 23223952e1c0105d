package dto

import (
	"encoding/json"

	"github.com/chatlift/chatlift/internal/api/validation"
)

type UpdateLeadRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

func (r UpdateLeadRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email != "" && !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}

	return errors
}

type LeadDTO struct {
	ID        string `json:"id"`
	WidgetID  string `json:"widget_id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

type ConversationDTO struct {
	ID            string          `json:"id"`
	WidgetID      string          `json:"widget_id"`
	LeadID        string          `json:"lead_id,omitempty"`
	VisitorKey    string          `json:"visitor_key"`
	Messages      json.RawMessage `json:"messages,omitempty"`
	StartedAt     string          `json:"started_at"`
	LastMessageAt string          `json:"last_message_at"`
}
