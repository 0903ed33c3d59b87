package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
)

var (
	ErrLinkNotFound = errors.New("login link not found")
	ErrLinkConflict = errors.New("login link already exists")
)

type LoginLinkRepository interface {
	Create(link *domain.LoginLink) error
	FindActiveByEmail(channel domain.Channel, email string) (*domain.LoginLink, error)
	FindActiveBySocial(channel domain.Channel, externalID, email string) (*domain.LoginLink, error)
	FindActiveByAccountID(accountID uint) (*domain.LoginLink, error)
	ActiveEmailExists(channel domain.Channel, email string) (bool, error)
	ActiveExternalIDExists(channel domain.Channel, externalID string) (bool, error)
	Detach(linkID uint) error
}

type GormLoginLinkRepository struct{ db *gorm.DB }

func NewLoginLinkRepository(db *gorm.DB) LoginLinkRepository {
	return &GormLoginLinkRepository{db: db}
}

// activeLinks scopes queries to links whose owning account is not withdrawn.
// Uniqueness among links holds only inside this scope, so it cannot be a DB
// unique index.
func (r *GormLoginLinkRepository) activeLinks() *gorm.DB {
	return r.db.Model(&domain.LoginLink{}).
		Joins("JOIN accounts ON accounts.id = login_links.account_id AND accounts.deleted_at IS NULL")
}

func (r *GormLoginLinkRepository) Create(link *domain.LoginLink) error {
	if link.Email != nil {
		taken, err := r.ActiveEmailExists(link.Channel, *link.Email)
		if err != nil {
			return err
		}
		if taken {
			observability.RecordRepositoryOperation(context.Background(), "login_link", "create", "conflict")
			return ErrLinkConflict
		}
	}
	if link.ExternalID != nil {
		taken, err := r.ActiveExternalIDExists(link.Channel, *link.ExternalID)
		if err != nil {
			return err
		}
		if taken {
			observability.RecordRepositoryOperation(context.Background(), "login_link", "create", "conflict")
			return ErrLinkConflict
		}
	}
	if err := r.db.Create(link).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "login_link", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "login_link", "create", "success")
	return nil
}

func (r *GormLoginLinkRepository) FindActiveByEmail(channel domain.Channel, email string) (*domain.LoginLink, error) {
	var link domain.LoginLink
	err := r.activeLinks().
		Where("login_links.channel = ? AND login_links.email = ?", channel, email).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *GormLoginLinkRepository) FindActiveBySocial(channel domain.Channel, externalID, email string) (*domain.LoginLink, error) {
	var link domain.LoginLink
	err := r.activeLinks().
		Where("login_links.channel = ? AND login_links.external_id = ? AND login_links.email = ?",
			channel, externalID, email).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *GormLoginLinkRepository) FindActiveByAccountID(accountID uint) (*domain.LoginLink, error) {
	var link domain.LoginLink
	err := r.activeLinks().
		Where("login_links.account_id = ?", accountID).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (r *GormLoginLinkRepository) ActiveEmailExists(channel domain.Channel, email string) (bool, error) {
	var count int64
	err := r.activeLinks().
		Where("login_links.channel = ? AND login_links.email = ?", channel, email).
		Count(&count).Error
	return count > 0, err
}

func (r *GormLoginLinkRepository) ActiveExternalIDExists(channel domain.Channel, externalID string) (bool, error) {
	var count int64
	err := r.activeLinks().
		Where("login_links.channel = ? AND login_links.external_id = ?", channel, externalID).
		Count(&count).Error
	return count > 0, err
}

// Detach nulls the external identity in place. The row and its channel stay
// behind as an audit record.
func (r *GormLoginLinkRepository) Detach(linkID uint) error {
	res := r.db.Model(&domain.LoginLink{}).Where("id = ?", linkID).Updates(map[string]any{
		"external_id": nil,
		"email":       nil,
	})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "login_link", "detach", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "login_link", "detach", "not_found")
		return ErrLinkNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "login_link", "detach", "success")
	return nil
}
