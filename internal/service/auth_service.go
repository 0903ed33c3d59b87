package service

import (
	"context"
	"errors"
	"time"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/repository"
	"account-auth-service/internal/security"
)

type AuthResult struct {
	AccountID uint   `json:"id"`
	Token     string `json:"token"`
}

// AuthService composes the account store, link registry, verification
// ledger and token issuer into the externally visible flows. It owns the
// transaction boundaries: account+link+password creation and withdraw's
// unlink+anonymize+revoke each commit or roll back as one unit.
type AuthService struct {
	store         *repository.Store
	tokens        *TokenService
	verifications *VerificationService
	google        security.IDTokenVerifier

	now func() time.Time
}

func NewAuthService(store *repository.Store, tokens *TokenService, verifications *VerificationService, google security.IDTokenVerifier) *AuthService {
	return &AuthService{
		store:         store,
		tokens:        tokens,
		verifications: verifications,
		google:        google,
		now:           time.Now,
	}
}

func validatePasswordPair(password1, password2 string) error {
	if password1 != password2 {
		return BadRequest(KindPasswordMismatch)
	}
	if violations := security.ValidatePasswordFormat(password1); len(violations) > 0 {
		return &FlowError{
			Status:  400,
			Kind:    KindPasswordFormat,
			Details: map[string][]string{"password": violations},
		}
	}
	return nil
}

// RegisterEmail moves Unverified → EmailVerified → Registered. The email
// must carry a consumed sign_up confirmation within the last 30 minutes.
func (s *AuthService) RegisterEmail(ctx context.Context, email, password1, password2 string, deviceType domain.DeviceType, agreeToAd bool) (*AuthResult, error) {
	taken, err := s.store.Links.ActiveEmailExists(domain.ChannelEmail, email)
	if err != nil {
		return nil, err
	}
	if taken {
		observability.RecordAuthEvent(ctx, "register_email", "email_exists")
		return nil, Unprocessable(KindEmailExists)
	}
	verified, err := s.verifications.HasRecentSignUpConfirmation(email)
	if err != nil {
		return nil, err
	}
	if !verified {
		observability.RecordAuthEvent(ctx, "register_email", "verification_expired")
		return nil, Unprocessable(KindVerificationExpired)
	}
	if err := validatePasswordPair(password1, password2); err != nil {
		return nil, err
	}
	hash, err := security.HashPassword(password1)
	if err != nil {
		return nil, err
	}

	var account *domain.Account
	err = s.store.Transaction(func(tx *repository.Store) error {
		code, err := NewAccountCode(tx.Accounts)
		if err != nil {
			return err
		}
		account = &domain.Account{
			AccountCode:      code,
			DeviceType:       deviceType,
			AgreeToAd:        agreeToAd,
			PushNotification: true,
		}
		if err := tx.Accounts.Create(account); err != nil {
			return err
		}
		if err := tx.Links.Create(&domain.LoginLink{
			Channel:   domain.ChannelEmail,
			Email:     &email,
			AccountID: account.ID,
		}); err != nil {
			return err
		}
		return tx.Accounts.SetPasswordHash(account.ID, hash)
	})
	if err != nil {
		if errors.Is(err, repository.ErrLinkConflict) {
			observability.RecordAuthEvent(ctx, "register_email", "email_exists")
			return nil, Unprocessable(KindEmailExists)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthEvent(ctx, "register_email", "success")
	return &AuthResult{AccountID: account.ID, Token: token}, nil
}

func (s *AuthService) LoginEmail(ctx context.Context, email, password string) (*AuthResult, error) {
	link, err := s.store.Links.FindActiveByEmail(domain.ChannelEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			observability.RecordAuthEvent(ctx, "login_email", "unregistered")
			return nil, Unprocessable(KindUnregisteredEmail)
		}
		return nil, err
	}
	account, err := s.store.Accounts.FindActiveByID(link.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, Unprocessable(KindUnregisteredEmail)
		}
		return nil, err
	}
	if account.PasswordHash == nil || !security.CheckPassword(*account.PasswordHash, password) {
		observability.RecordAuthEvent(ctx, "login_email", "incorrect_password")
		return nil, Unprocessable(KindIncorrectPassword)
	}
	token, err := s.tokens.Issue(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Accounts.SetLastLogin(account.ID, s.now()); err != nil {
		return nil, err
	}
	observability.RecordAuthEvent(ctx, "login_email", "success")
	return &AuthResult{AccountID: account.ID, Token: token}, nil
}

func (s *AuthService) RegisterSocial(ctx context.Context, channel domain.Channel, externalID, email string, deviceType domain.DeviceType, agreeToAd bool) (*AuthResult, error) {
	emailTaken, err := s.store.Links.ActiveEmailExists(channel, email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		observability.RecordAuthEvent(ctx, "register_social", "email_exists")
		return nil, Unprocessable(KindEmailExists)
	}
	idTaken, err := s.store.Links.ActiveExternalIDExists(channel, externalID)
	if err != nil {
		return nil, err
	}
	if idTaken {
		observability.RecordAuthEvent(ctx, "register_social", "social_exists")
		return nil, Unprocessable(KindSocialExists)
	}

	// Pure social accounts get a derived password hash so the column is
	// populated; it is never a credential the user knows.
	hash, err := security.HashPassword(externalID + email)
	if err != nil {
		return nil, err
	}

	var account *domain.Account
	err = s.store.Transaction(func(tx *repository.Store) error {
		code, err := NewAccountCode(tx.Accounts)
		if err != nil {
			return err
		}
		account = &domain.Account{
			AccountCode:      code,
			DeviceType:       deviceType,
			AgreeToAd:        agreeToAd,
			PushNotification: true,
		}
		if err := tx.Accounts.Create(account); err != nil {
			return err
		}
		if err := tx.Links.Create(&domain.LoginLink{
			Channel:    channel,
			ExternalID: &externalID,
			Email:      &email,
			AccountID:  account.ID,
		}); err != nil {
			return err
		}
		return tx.Accounts.SetPasswordHash(account.ID, hash)
	})
	if err != nil {
		if errors.Is(err, repository.ErrLinkConflict) {
			observability.RecordAuthEvent(ctx, "register_social", "conflict")
			return nil, Unprocessable(KindSocialExists)
		}
		return nil, err
	}

	token, err := s.tokens.Issue(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	observability.RecordAuthEvent(ctx, "register_social", "success")
	return &AuthResult{AccountID: account.ID, Token: token}, nil
}

func (s *AuthService) LoginSocial(ctx context.Context, channel domain.Channel, externalID, email, idToken string) (*AuthResult, error) {
	if channel == domain.ChannelGoogle {
		if err := s.google.VerifySubject(ctx, idToken, externalID); err != nil {
			switch {
			case errors.Is(err, security.ErrSubjectMismatch):
				observability.RecordAuthEvent(ctx, "login_social", "google_id_mismatch")
				return nil, Unprocessable(KindGoogleIDMismatch)
			case errors.Is(err, security.ErrIDTokenInvalid), errors.Is(err, security.ErrVerifierDisabled):
				observability.RecordAuthEvent(ctx, "login_social", "invalid_id_token")
				return nil, Unprocessable(KindInvalidIDToken)
			}
			return nil, err
		}
	}
	link, err := s.store.Links.FindActiveBySocial(channel, externalID, email)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			observability.RecordAuthEvent(ctx, "login_social", "not_found")
			return nil, NotFound(KindSocialNotFound)
		}
		return nil, err
	}
	token, err := s.tokens.Issue(ctx, link.AccountID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Accounts.SetLastLogin(link.AccountID, s.now()); err != nil {
		return nil, err
	}
	observability.RecordAuthEvent(ctx, "login_social", "success")
	return &AuthResult{AccountID: link.AccountID, Token: token}, nil
}

func (s *AuthService) Logout(ctx context.Context, accountID uint) error {
	return s.tokens.Revoke(ctx, accountID)
}

// Withdraw revokes the token, detaches the link and soft-deletes the
// account in one transaction; partial states are never observable.
func (s *AuthService) Withdraw(ctx context.Context, accountID uint) error {
	link, err := s.store.Links.FindActiveByAccountID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return Unprocessable(KindUserNotFound)
		}
		return err
	}
	err = s.store.Transaction(func(tx *repository.Store) error {
		if err := tx.Tokens.DeleteByAccountID(accountID); err != nil {
			return err
		}
		if err := tx.Links.Detach(link.ID); err != nil {
			return err
		}
		return tx.Accounts.SoftDelete(accountID, s.now())
	})
	if err != nil {
		return err
	}
	observability.RecordAuthEvent(ctx, "withdraw", "success")
	return nil
}

const (
	PasswordChangeTypeFind   = "find"
	PasswordChangeTypeChange = "change"
)

// ChangePassword serves both sub-flows. "change" derives the target email
// from the authenticated caller's link. "find" trusts the submitted email as
// the only proof of ownership; that is a known weakness preserved for
// compatibility with existing clients, do not harden it silently.
func (s *AuthService) ChangePassword(ctx context.Context, changeType string, accountID uint, email, password1, password2 string) error {
	if changeType == PasswordChangeTypeChange {
		link, err := s.store.Links.FindActiveByAccountID(accountID)
		if err != nil {
			if errors.Is(err, repository.ErrLinkNotFound) {
				return Unprocessable(KindUserNotFound)
			}
			return err
		}
		if link.Email == nil {
			return Unprocessable(KindUserNotFound)
		}
		email = *link.Email
	}
	if err := validatePasswordPair(password1, password2); err != nil {
		return err
	}
	link, err := s.store.Links.FindActiveByEmail(domain.ChannelEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			observability.RecordAuthEvent(ctx, "password_change", "user_not_found")
			return Unprocessable(KindUserNotFound)
		}
		return err
	}
	hash, err := security.HashPassword(password1)
	if err != nil {
		return err
	}
	if err := s.store.Accounts.SetPasswordHash(link.AccountID, hash); err != nil {
		return err
	}
	observability.RecordAuthEvent(ctx, "password_change", "success")
	return nil
}

// EmailForAccount resolves the caller's link email; the withdraw-purpose
// verification flows derive their target from it instead of caller input.
func (s *AuthService) EmailForAccount(accountID uint) (string, error) {
	link, err := s.store.Links.FindActiveByAccountID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return "", Unprocessable(KindUserNotFound)
		}
		return "", err
	}
	if link.Email == nil {
		return "", Unprocessable(KindUserNotFound)
	}
	return *link.Email, nil
}
