package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/chatlift/chatlift/internal/database/models"
)

// Authenticator defines the interface for identity operations.
type Authenticator interface {
	Signup(ctx context.Context, input SignupInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
	GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	ListTeam(ctx context.Context, tenantID uuid.UUID) ([]models.User, error)
}

// TokenService defines the interface for session token operations.
type TokenService interface {
	GenerateToken(userID, tenantID uuid.UUID, email, name, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Inviter defines the interface for the invitation lifecycle.
type Inviter interface {
	Create(ctx context.Context, input CreateInvitationInput) (*models.Invitation, error)
	Validate(ctx context.Context, token string) (*models.Invitation, error)
	Accept(ctx context.Context, token, name, password string) (*models.User, error)
	Revoke(ctx context.Context, tenantID, id uuid.UUID) error
	ListPending(ctx context.Context, tenantID uuid.UUID) ([]models.Invitation, error)
}

// Compile-time interface satisfaction checks
var (
	_ Authenticator = (*Service)(nil)
	_ TokenService  = (*JWTService)(nil)
	_ Inviter       = (*InvitationService)(nil)
)
