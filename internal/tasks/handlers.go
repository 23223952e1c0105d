package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/database/models"
)

type Handler struct {
	db      *gorm.DB
	logger  *slog.Logger
	mailer  Mailer
	baseURL string
}

func NewHandler(db *gorm.DB, logger *slog.Logger, mailer Mailer, baseURL string) *Handler {
	if mailer == nil {
		mailer = &LogMailer{Logger: logger}
	}
	return &Handler{
		db:      db,
		logger:  logger,
		mailer:  mailer,
		baseURL: baseURL,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInvitationEmail, h.HandleInvitationEmail)
	mux.HandleFunc(TypeTrialReminder, h.HandleTrialReminder)
}

// HandleInvitationEmail composes and sends the invite link for a pending
// invitation. Invitations accepted or expired since enqueueing are skipped.
func (h *Handler) HandleInvitationEmail(ctx context.Context, t *asynq.Task) error {
	var payload InvitationEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling payload: %w", err)
	}

	var invitation models.Invitation
	if err := h.db.WithContext(ctx).
		Preload("Tenant").
		First(&invitation, "id = ?", payload.InvitationID).Error; err != nil {
		return fmt.Errorf("loading invitation %s: %w", payload.InvitationID, err)
	}

	if invitation.Status != models.InvitationPending || invitation.IsExpired(time.Now()) {
		h.logger.Info("skipping invitation email, no longer pending",
			"invitation_id", invitation.ID,
			"status", invitation.Status,
		)
		return nil
	}

	tenantName := "your team"
	if invitation.Tenant != nil {
		tenantName = invitation.Tenant.Name
	}

	email := Email{
		To:      invitation.Email,
		Subject: fmt.Sprintf("You've been invited to join %s on Chatlift", tenantName),
		Body: fmt.Sprintf(
			"You've been invited to join %s as %s.\n\nAccept the invitation:\n%s/invitations/%s\n\nThis link expires on %s.",
			tenantName,
			invitation.Role,
			h.baseURL,
			invitation.Token,
			invitation.ExpiresAt.Format(time.RFC1123),
		),
	}

	if err := h.mailer.Send(ctx, email); err != nil {
		return fmt.Errorf("sending invitation email: %w", err)
	}

	h.logger.Info("invitation email sent", "invitation_id", invitation.ID, "tenant_id", invitation.TenantID)
	return nil
}

// HandleTrialReminder emails every trialing tenant whose trial ends within the
// payload window. Trial state itself is never mutated here; expiry is always
// computed at read time by the serving decision.
func (h *Handler) HandleTrialReminder(ctx context.Context, t *asynq.Task) error {
	var payload TrialReminderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling payload: %w", err)
	}
	if payload.WindowDays <= 0 {
		payload.WindowDays = 3
	}

	now := time.Now()
	cutoff := now.Add(time.Duration(payload.WindowDays) * 24 * time.Hour)

	var tenants []models.Tenant
	if err := h.db.WithContext(ctx).
		Where("subscription_status = ?", models.SubscriptionTrialing).
		Where("trial_ends_at IS NOT NULL AND trial_ends_at > ? AND trial_ends_at <= ?", now, cutoff).
		Find(&tenants).Error; err != nil {
		return fmt.Errorf("listing trialing tenants: %w", err)
	}

	for _, tenant := range tenants {
		var owners []models.User
		if err := h.db.WithContext(ctx).
			Where("tenant_id = ? AND role = ?", tenant.ID, "owner").
			Find(&owners).Error; err != nil {
			h.logger.Error("loading owners for trial reminder", "error", err, "tenant_id", tenant.ID)
			continue
		}

		for _, owner := range owners {
			email := Email{
				To:      owner.Email,
				Subject: "Your Chatlift trial is ending soon",
				Body: fmt.Sprintf(
					"Hi %s,\n\nThe trial for %s ends on %s. Add a payment method to keep your widgets live:\n%s/billing",
					owner.Name,
					tenant.Name,
					tenant.TrialEndsAt.Format(time.RFC1123),
					h.baseURL,
				),
			}
			if err := h.mailer.Send(ctx, email); err != nil {
				h.logger.Error("sending trial reminder", "error", err, "tenant_id", tenant.ID)
			}
		}
	}

	h.logger.Info("trial reminders processed", "tenants", len(tenants), "window_days", payload.WindowDays)
	return nil
}
