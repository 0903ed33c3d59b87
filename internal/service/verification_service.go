package service

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/repository"
)

const (
	verificationCodeLength = 8
	// confirmWindow is the rolling validity of an issued code.
	confirmWindow = 10 * time.Minute
	// registerWindow is how long a consumed sign_up confirmation stays
	// usable for registration.
	registerWindow = 30 * time.Minute
)

// VerificationService is the ledger of one-time codes. Codes are issued
// independently of account existence and never deleted; confirmation flags
// them consumed. Reissuing a code immediately invalidates all earlier
// unconsumed codes for the same (purpose, target) through the recency rule,
// not just after the time window lapses.
type VerificationService struct {
	emails   repository.EmailVerificationRepository
	phones   repository.PhoneVerificationRepository
	accounts repository.AccountRepository
	links    repository.LoginLinkRepository
	notifier Notifier
	logger   *slog.Logger

	production bool
	now        func() time.Time
}

func NewVerificationService(
	emails repository.EmailVerificationRepository,
	phones repository.PhoneVerificationRepository,
	accounts repository.AccountRepository,
	links repository.LoginLinkRepository,
	notifier Notifier,
	logger *slog.Logger,
	production bool,
) *VerificationService {
	return &VerificationService{
		emails:     emails,
		phones:     phones,
		accounts:   accounts,
		links:      links,
		notifier:   notifier,
		logger:     logger,
		production: production,
		now:        time.Now,
	}
}

// Production reports whether issued codes are withheld from responses and
// dispatched through the notifier instead.
func (s *VerificationService) Production() bool { return s.production }

// newNumericCode is intentionally non-cryptographic: codes are short-lived
// human-entry values, not secrets.
func newNumericCode() string {
	var b strings.Builder
	for i := 0; i < verificationCodeLength; i++ {
		b.WriteByte(byte('0' + rand.Intn(10)))
	}
	return b.String()
}

// IssueEmail persists a fresh unconsumed code for (purpose, email) and
// returns it. The caller decides, by deployment mode, whether the code goes
// into the response.
func (s *VerificationService) IssueEmail(ctx context.Context, purpose domain.VerificationPurpose, email string) (string, error) {
	registered, err := s.links.ActiveEmailExists(domain.ChannelEmail, email)
	if err != nil {
		return "", err
	}
	if purpose == domain.PurposeSignUp && registered {
		observability.RecordVerificationEvent(ctx, "email", "issue", "already_registered")
		return "", BadRequest(KindAlreadyRegistered)
	}
	if purpose == domain.PurposePasswordChange && !registered {
		observability.RecordVerificationEvent(ctx, "email", "issue", "unregistered")
		return "", BadRequest(KindUnregisteredEmail)
	}

	code := newNumericCode()
	if err := s.emails.Create(&domain.EmailVerification{
		Purpose:   purpose,
		Email:     email,
		Code:      code,
		CreatedAt: s.now(),
	}); err != nil {
		return "", err
	}
	if s.production {
		// Fire-and-forget: delivery failure never fails the request.
		if err := s.notifier.SendVerificationEmail(ctx, email, code); err != nil {
			s.logger.ErrorContext(ctx, "verification email dispatch failed", "email", email, "error", err)
		}
	}
	observability.RecordVerificationEvent(ctx, "email", "issue", "success")
	return code, nil
}

// ConfirmEmail redeems a code. Only the most recently issued unconsumed code
// for (purpose, email) on the current calendar day can succeed, and only if
// the newest request for the email falls within the rolling 10-minute window
// and still carries the submitted code.
func (s *VerificationService) ConfirmEmail(ctx context.Context, purpose domain.VerificationPurpose, email, code string) error {
	now := s.now()
	dayStart, dayEnd := calendarDay(now)

	match, err := s.emails.FindUnconsumed(purpose, email, code, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			observability.RecordVerificationEvent(ctx, "email", "confirm", "incorrect_code")
			return Unprocessable(KindIncorrectCode)
		}
		return err
	}
	latest, err := s.emails.LatestUnconsumed(purpose, email, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return Unprocessable(KindIncorrectCode)
		}
		return err
	}
	// A superseded code is permanently invalid even when its value matches
	// a later reissue and has not yet timed out.
	if latest.ID != match.ID {
		observability.RecordVerificationEvent(ctx, "email", "confirm", "stale_code")
		return Unprocessable(KindIncorrectCode)
	}
	recent, err := s.emails.LatestForTargetSince(email, now.Add(-confirmWindow))
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			observability.RecordVerificationEvent(ctx, "email", "confirm", "time_expired")
			return Unprocessable(KindTimeExpired)
		}
		return err
	}
	// The in-window request must carry the submitted code. A newer request
	// for another purpose does not keep an older code alive.
	if recent.Code != match.Code {
		observability.RecordVerificationEvent(ctx, "email", "confirm", "time_expired")
		return Unprocessable(KindTimeExpired)
	}
	if err := s.emails.Consume(match.ID); err != nil {
		return err
	}
	observability.RecordVerificationEvent(ctx, "email", "confirm", "success")
	return nil
}

// HasRecentSignUpConfirmation gates registration: a consumed sign_up code
// for the email must exist inside the 30-minute window.
func (s *VerificationService) HasRecentSignUpConfirmation(email string) (bool, error) {
	return s.emails.ConsumedExistsSince(domain.PurposeSignUp, email, s.now().Add(-registerWindow))
}

// IssuePhone issues a code for the caller's phone number. The requesting
// account is recorded so the confirmed number can be written back to it.
func (s *VerificationService) IssuePhone(ctx context.Context, accountID uint, countryCode, phoneNumber string) (string, error) {
	code := newNumericCode()
	if err := s.phones.Create(&domain.PhoneVerification{
		PhoneNumber: phoneNumber,
		CountryCode: countryCode,
		Code:        code,
		AccountID:   accountID,
		CreatedAt:   s.now(),
	}); err != nil {
		return "", err
	}
	if s.production {
		if err := s.notifier.SendVerificationSMS(ctx, countryCode+phoneNumber, code); err != nil {
			s.logger.ErrorContext(ctx, "verification sms dispatch failed", "phone_number", phoneNumber, "error", err)
		}
	}
	observability.RecordVerificationEvent(ctx, "phone", "issue", "success")
	return code, nil
}

// ConfirmPhone mirrors ConfirmEmail; success additionally writes the
// verified number onto the calling account.
func (s *VerificationService) ConfirmPhone(ctx context.Context, account *domain.Account, countryCode, phoneNumber, code string) error {
	now := s.now()
	dayStart, dayEnd := calendarDay(now)

	match, err := s.phones.FindUnconsumed(phoneNumber, countryCode, code, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			observability.RecordVerificationEvent(ctx, "phone", "confirm", "incorrect_code")
			return Unprocessable(KindIncorrectCode)
		}
		return err
	}
	latest, err := s.phones.LatestUnconsumed(phoneNumber, countryCode, dayStart, dayEnd)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return Unprocessable(KindIncorrectCode)
		}
		return err
	}
	if latest.ID != match.ID {
		observability.RecordVerificationEvent(ctx, "phone", "confirm", "stale_code")
		return Unprocessable(KindIncorrectCode)
	}
	recent, err := s.phones.LatestForTargetSince(phoneNumber, countryCode, now.Add(-confirmWindow))
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			observability.RecordVerificationEvent(ctx, "phone", "confirm", "time_expired")
			return Unprocessable(KindTimeExpired)
		}
		return err
	}
	if recent.Code != match.Code {
		observability.RecordVerificationEvent(ctx, "phone", "confirm", "time_expired")
		return Unprocessable(KindTimeExpired)
	}
	if err := s.phones.Consume(match.ID); err != nil {
		return err
	}
	if err := s.accounts.SetPhone(account.ID, phoneNumber, countryCode); err != nil {
		return err
	}
	observability.RecordVerificationEvent(ctx, "phone", "confirm", "success")
	return nil
}

func calendarDay(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
