package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/database/models"
	"github.com/chatlift/chatlift/internal/tasks"
	"github.com/chatlift/chatlift/pkg/crypto"
)

const (
	invitationTokenBytes = 32
	invitationTTL        = 7 * 24 * time.Hour
)

var (
	ErrInvalidRole           = errors.New("invalid role")
	ErrMemberExists          = errors.New("a member with this email already exists")
	ErrPendingInvitation     = errors.New("a pending invitation for this email already exists")
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationUsed        = errors.New("invitation has already been used")
	ErrInvitationEmailTaken  = errors.New("an account with this email already exists")
)

// InvitationService manages the team-invitation lifecycle: pending→accepted,
// with expiry detected lazily on every read.
type InvitationService struct {
	db     *gorm.DB
	queue  *asynq.Client
	logger *slog.Logger
}

// NewInvitationService creates the service. queue may be nil, in which case
// invitation emails are skipped (tests, local runs without Redis).
func NewInvitationService(db *gorm.DB, queue *asynq.Client, logger *slog.Logger) *InvitationService {
	return &InvitationService{db: db, queue: queue, logger: logger}
}

type CreateInvitationInput struct {
	TenantID  uuid.UUID
	InvitedBy uuid.UUID
	Email     string
	Role      Role
}

// Create issues a pending invitation with a random lookup token and a 7-day
// expiry, then enqueues the invitation email.
func (s *InvitationService) Create(ctx context.Context, input CreateInvitationInput) (*models.Invitation, error) {
	if !input.Role.IsValid() {
		return nil, ErrInvalidRole
	}

	email := normalizeEmail(input.Email)

	var member models.User
	err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(input.TenantID)).
		Where("email = ?", email).
		First(&member).Error
	if err == nil {
		return nil, ErrMemberExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var pending models.Invitation
	err = s.db.WithContext(ctx).
		Scopes(database.TenantScope(input.TenantID)).
		Where("email = ? AND status = ?", email, models.InvitationPending).
		First(&pending).Error
	if err == nil {
		return nil, ErrPendingInvitation
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	token, err := crypto.NewToken(invitationTokenBytes)
	if err != nil {
		return nil, err
	}

	invitation := models.Invitation{
		TenantID:  input.TenantID,
		Token:     token,
		Email:     email,
		Role:      string(input.Role),
		InvitedBy: input.InvitedBy,
		Status:    models.InvitationPending,
		ExpiresAt: time.Now().Add(invitationTTL),
	}

	if err := s.db.WithContext(ctx).Create(&invitation).Error; err != nil {
		return nil, err
	}

	s.enqueueEmail(&invitation)

	return &invitation, nil
}

// Validate looks up an invitation by token and checks status and expiry. An
// expired invitation reports ErrInvitationExpired even though nothing ever
// writes an expired status.
func (s *InvitationService) Validate(ctx context.Context, token string) (*models.Invitation, error) {
	var invitation models.Invitation
	if err := s.db.WithContext(ctx).
		Preload("Tenant").
		Where("token = ?", token).
		First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, err
	}

	if invitation.Status != models.InvitationPending {
		return nil, ErrInvitationUsed
	}
	if invitation.IsExpired(time.Now()) {
		return nil, ErrInvitationExpired
	}

	return &invitation, nil
}

// Accept re-validates the invitation, then atomically creates the identity
// and flips the invitation to accepted. The status flip is a guarded update,
// so a concurrent second accept observes ErrInvitationUsed instead of
// creating a duplicate identity.
func (s *InvitationService) Accept(ctx context.Context, token, name, password string) (*models.User, error) {
	invitation, err := s.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	var existing models.User
	err = s.db.WithContext(ctx).Where("email = ?", invitation.Email).First(&existing).Error
	if err == nil {
		return nil, ErrInvitationEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Invitation{}).
			Where("id = ? AND status = ?", invitation.ID, models.InvitationPending).
			Update("status", models.InvitationAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvitationUsed
		}

		user = models.User{
			Email:        invitation.Email,
			PasswordHash: hash,
			Name:         name,
			TenantID:     invitation.TenantID,
			Role:         invitation.Role,
		}
		return tx.Create(&user).Error
	})

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Revoke deletes a pending invitation in the tenant. Accepted invitations are
// part of the audit trail and cannot be revoked.
func (s *InvitationService) Revoke(ctx context.Context, tenantID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Where("id = ? AND status = ?", id, models.InvitationPending).
		Delete(&models.Invitation{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}

// ListPending returns the tenant's pending invitations.
func (s *InvitationService) ListPending(ctx context.Context, tenantID uuid.UUID) ([]models.Invitation, error) {
	var invitations []models.Invitation
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Where("status = ?", models.InvitationPending).
		Order("created_at desc").
		Find(&invitations).Error; err != nil {
		return nil, err
	}
	return invitations, nil
}

func (s *InvitationService) enqueueEmail(invitation *models.Invitation) {
	if s.queue == nil {
		return
	}

	task, err := tasks.NewInvitationEmailTask(tasks.InvitationEmailPayload{
		InvitationID: invitation.ID,
		TenantID:     invitation.TenantID,
	})
	if err != nil {
		s.logger.Error("failed to build invitation email task", "error", err)
		return
	}

	if _, err := s.queue.Enqueue(task, asynq.Queue("mail")); err != nil {
		s.logger.Error("failed to enqueue invitation email", "error", err, "invitation_id", invitation.ID)
	}
}
