package tasks

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeInvitationEmail = "email:invitation"
	TypeTrialReminder   = "email:trial_reminder"
)

// InvitationEmailPayload identifies the invitation to deliver. The token is
// loaded from the database at delivery time, not carried through Redis.
type InvitationEmailPayload struct {
	InvitationID uuid.UUID `json:"invitation_id"`
	TenantID     uuid.UUID `json:"tenant_id"`
}

func NewInvitationEmailTask(payload InvitationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeInvitationEmail, data), nil
}

// TrialReminderPayload asks the worker to notify every trialing tenant whose
// trial ends within the window.
type TrialReminderPayload struct {
	WindowDays int `json:"window_days"`
}

func NewTrialReminderTask(payload TrialReminderPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeTrialReminder, data), nil
}
