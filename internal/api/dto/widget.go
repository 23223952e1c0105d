package dto

import "github.com/chatlift/chatlift/internal/api/validation"

type CreateWidgetRequest struct {
	Name          string `json:"name"`
	Greeting      string `json:"greeting"`
	AccentColor   string `json:"accent_color"`
	ModelProvider string `json:"model_provider"`
	APIKey        string `json:"api_key"`
}

func (r CreateWidgetRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.AccentColor != "" && !validation.IsValidHexColor(r.AccentColor) {
		errors["accent_color"] = "Accent color must be a hex color like #4f46e5"
	}

	return errors
}

type UpdateWidgetRequest struct {
	Name          string `json:"name"`
	Greeting      string `json:"greeting"`
	AccentColor   string `json:"accent_color"`
	ModelProvider string `json:"model_provider"`
	APIKey        string `json:"api_key"`
	IsActive      *bool  `json:"is_active"`
}

func (r UpdateWidgetRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.AccentColor != "" && !validation.IsValidHexColor(r.AccentColor) {
		errors["accent_color"] = "Accent color must be a hex color like #4f46e5"
	}

	return errors
}

type WidgetDTO struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	PublicKey     string `json:"public_key"`
	Greeting      string `json:"greeting"`
	AccentColor   string `json:"accent_color"`
	ModelProvider string `json:"model_provider"`
	HasAPIKey     bool   `json:"has_api_key"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
}

// WidgetEmbedConfig is the public embed payload. It carries only what the
// widget script needs to render; serving=false with a reason replaces the
// config when the tenant's subscription cannot serve.
type WidgetEmbedConfig struct {
	Serving     bool   `json:"serving"`
	Reason      string `json:"reason,omitempty"`
	Name        string `json:"name,omitempty"`
	Greeting    string `json:"greeting,omitempty"`
	AccentColor string `json:"accent_color,omitempty"`
}
