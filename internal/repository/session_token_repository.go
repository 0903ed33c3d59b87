package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
)

var (
	ErrTokenNotFound = errors.New("session token not found")
	// ErrTokenConflict reports a losing insert in the one-token-per-account
	// race. The issuer recovers from it by delete-then-recreate; it never
	// reaches a caller.
	ErrTokenConflict = errors.New("session token already exists for account")
)

type SessionTokenRepository interface {
	Create(token *domain.SessionToken) error
	FindByKey(key string) (*domain.SessionToken, error)
	FindByAccountID(accountID uint) (*domain.SessionToken, error)
	DeleteByAccountID(accountID uint) error
}

type GormSessionTokenRepository struct{ db *gorm.DB }

func NewSessionTokenRepository(db *gorm.DB) SessionTokenRepository {
	return &GormSessionTokenRepository{db: db}
}

func (r *GormSessionTokenRepository) Create(token *domain.SessionToken) error {
	if err := r.db.Create(token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.RecordRepositoryOperation(context.Background(), "session_token", "create", "conflict")
			return ErrTokenConflict
		}
		observability.RecordRepositoryOperation(context.Background(), "session_token", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "session_token", "create", "success")
	return nil
}

func (r *GormSessionTokenRepository) FindByKey(key string) (*domain.SessionToken, error) {
	var token domain.SessionToken
	if err := r.db.Where("key = ?", key).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *GormSessionTokenRepository) FindByAccountID(accountID uint) (*domain.SessionToken, error) {
	var token domain.SessionToken
	if err := r.db.Where("account_id = ?", accountID).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

// DeleteByAccountID is idempotent: deleting an absent token is not an error.
func (r *GormSessionTokenRepository) DeleteByAccountID(accountID uint) error {
	res := r.db.Where("account_id = ?", accountID).Delete(&domain.SessionToken{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "session_token", "delete", "error")
		return res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "session_token", "delete", "success")
	return nil
}
