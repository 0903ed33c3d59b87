package service

import (
	"context"
	"log/slog"
)

// Notifier dispatches verification codes through an external delivery
// provider. Delivery is fire-and-forget: provider failure never fails the
// issuing request.
type Notifier interface {
	SendVerificationEmail(ctx context.Context, email, code string) error
	SendVerificationSMS(ctx context.Context, phoneNumber, code string) error
}

// DevNotifier logs instead of delivering. It is the only Notifier
// implementation wired today, in every deployment mode: non-production
// returns the code in the HTTP response and ignores dispatch, production
// "dispatch" is this log line until a provider-backed notifier replaces it.
// TODO: integrate an email/SMS provider and wire it for production.
type DevNotifier struct {
	logger *slog.Logger
}

func NewDevNotifier(logger *slog.Logger) *DevNotifier {
	return &DevNotifier{logger: logger}
}

func (n *DevNotifier) SendVerificationEmail(ctx context.Context, email, code string) error {
	n.logger.InfoContext(ctx, "verification email issued", "email", email, "code", code)
	return nil
}

func (n *DevNotifier) SendVerificationSMS(ctx context.Context, phoneNumber, code string) error {
	n.logger.InfoContext(ctx, "verification sms issued", "phone_number", phoneNumber, "code", code)
	return nil
}
