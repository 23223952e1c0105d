package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/chatlift/chatlift/internal/api/dto"
	"github.com/chatlift/chatlift/internal/api/middleware"
	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/database/models"
)

type TeamHandler struct {
	authService *auth.Service
	invitations *auth.InvitationService
	sessions    *auth.SessionManager
}

func NewTeamHandler(authService *auth.Service, invitations *auth.InvitationService, sessions *auth.SessionManager) *TeamHandler {
	return &TeamHandler{authService: authService, invitations: invitations, sessions: sessions}
}

func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	members, err := h.authService.ListTeam(r.Context(), tenantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list team"})
		return
	}

	out := make([]dto.UserDTO, 0, len(members))
	for i := range members {
		out = append(out, userDTO(&members[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req dto.InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	sess := middleware.GetSession(r.Context())

	invitation, err := h.invitations.Create(r.Context(), auth.CreateInvitationInput{
		TenantID:  sess.TenantID,
		InvitedBy: sess.UserID,
		Email:     req.Email,
		Role:      auth.Role(req.Role),
	})

	if err != nil {
		switch err {
		case auth.ErrInvalidRole:
			writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Unknown role"})
		case auth.ErrMemberExists:
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "This email already belongs to a team member"})
		case auth.ErrPendingInvitation:
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "A pending invitation for this email already exists"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create invitation"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, invitationDTO(invitation))
}

func (h *TeamHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	tenantID := middleware.GetTenantID(r.Context())

	invitations, err := h.invitations.ListPending(r.Context(), tenantID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list invitations"})
		return
	}

	out := make([]dto.InvitationDTO, 0, len(invitations))
	for i := range invitations {
		out = append(out, invitationDTO(&invitations[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *TeamHandler) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid invitation ID"})
		return
	}

	tenantID := middleware.GetTenantID(r.Context())

	if err := h.invitations.Revoke(r.Context(), tenantID, id); err != nil {
		switch err {
		case auth.ErrInvitationNotFound:
			writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Invitation not found"})
		default:
			writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to revoke invitation"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.SuccessResponse{Message: "Invitation revoked"})
}

// GetInvitation is the unauthenticated accept-page lookup. It resolves the
// token to just enough detail to render the form, without leaking tenant ids.
func (h *TeamHandler) GetInvitation(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	invitation, err := h.invitations.Validate(r.Context(), token)
	if err != nil {
		writeInvitationError(w, err)
		return
	}

	details := dto.InvitationDetails{
		Email:     invitation.Email,
		Role:      invitation.Role,
		ExpiresAt: invitation.ExpiresAt.Format(time.RFC3339),
	}
	if invitation.Tenant != nil {
		details.TenantName = invitation.Tenant.Name
	}
	writeJSON(w, http.StatusOK, details)
}

// AcceptInvitation creates the invited identity and starts a session, so the
// new member lands in the dashboard already signed in.
func (h *TeamHandler) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req dto.AcceptInvitationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	user, err := h.invitations.Accept(r.Context(), token, req.Name, req.Password)
	if err != nil {
		switch err {
		case auth.ErrInvitationEmailTaken:
			writeJSON(w, http.StatusConflict, dto.ErrorResponse{Error: "An account with this email already exists"})
		default:
			writeInvitationError(w, err)
		}
		return
	}

	jwtToken, err := h.sessions.Start(w, user)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start session"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{
		Token: jwtToken,
		User:  userDTO(user),
	})
}

func writeInvitationError(w http.ResponseWriter, err error) {
	switch err {
	case auth.ErrInvitationNotFound:
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Invitation not found"})
	case auth.ErrInvitationExpired:
		writeJSON(w, http.StatusGone, dto.ErrorResponse{Error: "Invitation has expired"})
	case auth.ErrInvitationUsed:
		writeJSON(w, http.StatusGone, dto.ErrorResponse{Error: "Invitation has already been used"})
	default:
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load invitation"})
	}
}

func invitationDTO(inv *models.Invitation) dto.InvitationDTO {
	return dto.InvitationDTO{
		ID:        inv.ID.String(),
		Email:     inv.Email,
		Role:      inv.Role,
		Status:    inv.Status,
		ExpiresAt: inv.ExpiresAt.Format(time.RFC3339),
		CreatedAt: inv.CreatedAt.Format(time.RFC3339),
	}
}
