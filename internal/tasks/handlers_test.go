package tasks_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlift/chatlift/internal/database/models"
	"github.com/chatlift/chatlift/internal/tasks"
	"github.com/chatlift/chatlift/internal/testutil"
)

// fakeMailer captures composed emails instead of delivering them.
type fakeMailer struct {
	sent []tasks.Email
}

func (m *fakeMailer) Send(_ context.Context, email tasks.Email) error {
	m.sent = append(m.sent, email)
	return nil
}

func newTaskHandler(t *testing.T) (*tasks.Handler, *fakeMailer, *testutil.TestSetup) {
	t.Helper()
	ts := testutil.NewTestContext(t)
	t.Cleanup(ts.Cleanup)

	mailer := &fakeMailer{}
	handler := tasks.NewHandler(ts.DB, slog.Default(), mailer, "https://app.chatlift.example")
	return handler, mailer, ts
}

func TestHandler_HandleInvitationEmail(t *testing.T) {
	t.Run("sends invite link for pending invitation", func(t *testing.T) {
		handler, mailer, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		invitation := testutil.CreateTestInvitation(t, ts.DB, ts.Tenant.ID, ts.Owner.ID, "invitee@example.com")

		task, err := tasks.NewInvitationEmailTask(tasks.InvitationEmailPayload{
			InvitationID: invitation.ID,
			TenantID:     invitation.TenantID,
		})
		require.NoError(t, err)

		require.NoError(t, handler.HandleInvitationEmail(ctx, task))

		require.Len(t, mailer.sent, 1)
		email := mailer.sent[0]
		assert.Equal(t, "invitee@example.com", email.To)
		assert.Contains(t, email.Subject, ts.Tenant.Name)
		assert.Contains(t, email.Body, "https://app.chatlift.example/invitations/"+invitation.Token)
	})

	t.Run("skips accepted invitation", func(t *testing.T) {
		handler, mailer, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		invitation := testutil.CreateTestInvitation(t, ts.DB, ts.Tenant.ID, ts.Owner.ID, "done@example.com")
		require.NoError(t, ts.DB.Model(invitation).
			Update("status", models.InvitationAccepted).Error)

		task, err := tasks.NewInvitationEmailTask(tasks.InvitationEmailPayload{
			InvitationID: invitation.ID,
			TenantID:     invitation.TenantID,
		})
		require.NoError(t, err)

		require.NoError(t, handler.HandleInvitationEmail(ctx, task))
		assert.Empty(t, mailer.sent)
	})

	t.Run("skips expired invitation", func(t *testing.T) {
		handler, mailer, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		invitation := testutil.CreateTestInvitation(t, ts.DB, ts.Tenant.ID, ts.Owner.ID, "late@example.com")
		require.NoError(t, ts.DB.Model(invitation).
			Update("expires_at", time.Now().Add(-time.Hour)).Error)

		task, err := tasks.NewInvitationEmailTask(tasks.InvitationEmailPayload{
			InvitationID: invitation.ID,
			TenantID:     invitation.TenantID,
		})
		require.NoError(t, err)

		require.NoError(t, handler.HandleInvitationEmail(ctx, task))
		assert.Empty(t, mailer.sent)
	})

	t.Run("errors on unknown invitation", func(t *testing.T) {
		handler, _, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		invitation := testutil.CreateTestInvitation(t, ts.DB, ts.Tenant.ID, ts.Owner.ID, "gone@example.com")
		require.NoError(t, ts.DB.Delete(invitation).Error)

		task, err := tasks.NewInvitationEmailTask(tasks.InvitationEmailPayload{
			InvitationID: invitation.ID,
			TenantID:     invitation.TenantID,
		})
		require.NoError(t, err)

		assert.Error(t, handler.HandleInvitationEmail(ctx, task))
	})
}

func TestHandler_HandleTrialReminder(t *testing.T) {
	t.Run("emails owners of trials ending inside the window", func(t *testing.T) {
		handler, mailer, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		// The fixture tenant's trial ends in 14 days, outside a 3-day window.
		endingSoon := testutil.CreateTestTenant(t, ts.DB)
		owner := testutil.CreateTestUser(t, ts.DB, endingSoon, "owner")
		testutil.CreateTestUser(t, ts.DB, endingSoon, "agent")
		require.NoError(t, ts.DB.Model(endingSoon).
			Update("trial_ends_at", time.Now().Add(24*time.Hour)).Error)

		task, err := tasks.NewTrialReminderTask(tasks.TrialReminderPayload{WindowDays: 3})
		require.NoError(t, err)

		require.NoError(t, handler.HandleTrialReminder(ctx, task))

		require.Len(t, mailer.sent, 1)
		assert.Equal(t, owner.Email, mailer.sent[0].To)
		assert.Contains(t, mailer.sent[0].Body, endingSoon.Name)
	})

	t.Run("skips already-expired trials", func(t *testing.T) {
		handler, mailer, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		expired := testutil.CreateTestTenant(t, ts.DB)
		testutil.CreateTestUser(t, ts.DB, expired, "owner")
		require.NoError(t, ts.DB.Model(expired).
			Update("trial_ends_at", time.Now().Add(-24*time.Hour)).Error)

		task, err := tasks.NewTrialReminderTask(tasks.TrialReminderPayload{WindowDays: 3})
		require.NoError(t, err)

		require.NoError(t, handler.HandleTrialReminder(ctx, task))
		assert.Empty(t, mailer.sent)
	})

	t.Run("skips non-trialing tenants", func(t *testing.T) {
		handler, mailer, ts := newTaskHandler(t)
		ctx := testutil.TestContext(t)

		paying := testutil.CreateTestTenant(t, ts.DB)
		testutil.CreateTestUser(t, ts.DB, paying, "owner")
		require.NoError(t, ts.DB.Model(paying).Updates(map[string]interface{}{
			"subscription_status": models.SubscriptionActive,
			"trial_ends_at":       time.Now().Add(24 * time.Hour),
		}).Error)

		task, err := tasks.NewTrialReminderTask(tasks.TrialReminderPayload{WindowDays: 3})
		require.NoError(t, err)

		require.NoError(t, handler.HandleTrialReminder(ctx, task))
		assert.Empty(t, mailer.sent)
	})
}
