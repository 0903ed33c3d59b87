package service

import (
	"context"
	"errors"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/repository"
	"account-auth-service/internal/security"
)

const issueAttempts = 3

// TokenService mints and rotates the one live bearer credential per
// account. The token table's unique account index is the concurrency
// primitive: a losing concurrent insert surfaces as ErrTokenConflict and is
// recovered here by delete-then-recreate, never surfaced to callers.
type TokenService struct {
	tokens   repository.SessionTokenRepository
	accounts repository.AccountRepository
}

func NewTokenService(tokens repository.SessionTokenRepository, accounts repository.AccountRepository) *TokenService {
	return &TokenService{tokens: tokens, accounts: accounts}
}

// Issue replaces whatever token the account holds. Every successful login
// invalidates any previously distributed key.
func (s *TokenService) Issue(ctx context.Context, accountID uint) (string, error) {
	var lastErr error
	for attempt := 0; attempt < issueAttempts; attempt++ {
		key, err := security.NewTokenKey()
		if err != nil {
			return "", err
		}
		err = s.tokens.Create(&domain.SessionToken{Key: key, AccountID: accountID})
		if err == nil {
			observability.RecordAuthEvent(ctx, "token_issue", "success")
			return key, nil
		}
		if !errors.Is(err, repository.ErrTokenConflict) {
			return "", err
		}
		observability.RecordAuthEvent(ctx, "token_issue", "conflict_retry")
		if err := s.tokens.DeleteByAccountID(accountID); err != nil {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// Revoke is idempotent; a missing token is not an error.
func (s *TokenService) Revoke(ctx context.Context, accountID uint) error {
	if err := s.tokens.DeleteByAccountID(accountID); err != nil {
		return err
	}
	observability.RecordAuthEvent(ctx, "token_revoke", "success")
	return nil
}

// Authenticate resolves a bearer key to its active account.
func (s *TokenService) Authenticate(key string) (*domain.Account, error) {
	token, err := s.tokens.FindByKey(key)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindActiveByID(token.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, repository.ErrTokenNotFound
		}
		return nil, err
	}
	return account, nil
}

// CurrentKey returns the live key for an account, if any.
func (s *TokenService) CurrentKey(accountID uint) (string, error) {
	token, err := s.tokens.FindByAccountID(accountID)
	if err != nil {
		return "", err
	}
	return token.Key, nil
}
