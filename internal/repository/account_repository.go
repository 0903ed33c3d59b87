package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
)

var ErrAccountNotFound = errors.New("account not found")

type AccountRepository interface {
	Create(account *domain.Account) error
	FindByID(id uint) (*domain.Account, error)
	FindActiveByID(id uint) (*domain.Account, error)
	CodeExists(code string) (bool, error)
	NicknameTaken(nickname string, excludeAccountID uint) (bool, error)
	Update(account *domain.Account) error
	SetPasswordHash(accountID uint, hash string) error
	SetLastLogin(accountID uint, at time.Time) error
	SetPhone(accountID uint, phoneNumber, countryCode string) error
	SoftDelete(accountID uint, at time.Time) error
}

type GormAccountRepository struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) Create(account *domain.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "account", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "create", "success")
	return nil
}

func (r *GormAccountRepository) FindByID(id uint) (*domain.Account, error) {
	var account domain.Account
	if err := r.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) FindActiveByID(id uint) (*domain.Account, error) {
	var account domain.Account
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormAccountRepository) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Account{}).Where("account_code = ?", code).Count(&count).Error
	return count > 0, err
}

// NicknameTaken checks uniqueness among active accounts only; withdrawn rows
// have their nickname cleared and never block reuse.
func (r *GormAccountRepository) NicknameTaken(nickname string, excludeAccountID uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Account{}).
		Where("nickname = ? AND deleted_at IS NULL AND id <> ?", nickname, excludeAccountID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormAccountRepository) Update(account *domain.Account) error {
	if err := r.db.Save(account).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "account", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "update", "success")
	return nil
}

func (r *GormAccountRepository) SetPasswordHash(accountID uint, hash string) error {
	return r.updateFields(accountID, map[string]any{"password_hash": hash})
}

func (r *GormAccountRepository) SetLastLogin(accountID uint, at time.Time) error {
	return r.updateFields(accountID, map[string]any{"last_login_at": at})
}

func (r *GormAccountRepository) SetPhone(accountID uint, phoneNumber, countryCode string) error {
	return r.updateFields(accountID, map[string]any{
		"phone":              phoneNumber,
		"phone_country_code": countryCode,
	})
}

// SoftDelete marks the account withdrawn and clears the fields whose
// uniqueness must be freed for future re-registration.
func (r *GormAccountRepository) SoftDelete(accountID uint, at time.Time) error {
	return r.updateFields(accountID, map[string]any{
		"deleted_at":         at,
		"nickname":           nil,
		"phone":              nil,
		"phone_country_code": nil,
	})
}

func (r *GormAccountRepository) updateFields(accountID uint, fields map[string]any) error {
	res := r.db.Model(&domain.Account{}).Where("id = ?", accountID).Updates(fields)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "account", "update", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "account", "update", "not_found")
		return ErrAccountNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "account", "update", "success")
	return nil
}
