package dto

import "github.com/chatlift/chatlift/internal/api/validation"

type InviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r InviteRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	} else if !validation.IsValidEmail(r.Email) {
		errors["email"] = "Invalid email format"
	}
	if r.Role == "" {
		errors["role"] = "Role is required"
	}

	return errors
}

type InvitationDTO struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// InvitationDetails is the pre-auth view of an invitation shown on the accept
// page. It deliberately excludes who sent it and any tenant ids.
type InvitationDetails struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	TenantName string `json:"tenant_name"`
	ExpiresAt  string `json:"expires_at"`
}
