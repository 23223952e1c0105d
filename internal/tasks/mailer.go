package tasks

import (
	"context"
	"log/slog"
)

// Email is an outbound message. Delivery itself is an external concern; the
// worker only composes messages and hands them to a Mailer.
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers outbound email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// LogMailer logs messages instead of delivering them. Default when no real
// provider is wired in.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.Logger.Info("email (not delivered, log mailer)",
		"to", email.To,
		"subject", email.Subject,
	)
	return nil
}
