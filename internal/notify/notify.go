// Package notify defines the outbound email port. Every notification this
// service sends is best-effort: a failed send is logged and never fails
// the operation that triggered it.
package notify

import (
	"context"
	"log/slog"
	"time"
)

// Mailer is the port to the external email service.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// BestEffort sends with a bounded timeout and swallows failures, logging
// them instead. This is policy, not an accident: notifications must never
// gate order state.
func BestEffort(ctx context.Context, m Mailer, to, subject, body string) {
	if m == nil || to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.Send(ctx, to, subject, body); err != nil {
		slog.ErrorContext(ctx, "notification send failed",
			"to", to, "subject", subject, "error", err)
	}
}

// LogMailer is a Mailer for development: it logs instead of sending.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, to, subject, body string) error {
	slog.InfoContext(ctx, "email (dev mode, not sent)", "to", to, "subject", subject)
	return nil
}
