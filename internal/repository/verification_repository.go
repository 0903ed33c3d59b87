package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/observability"
)

var ErrVerificationNotFound = errors.New("verification request not found")

type EmailVerificationRepository interface {
	Create(v *domain.EmailVerification) error
	FindUnconsumed(purpose domain.VerificationPurpose, email, code string, from, to time.Time) (*domain.EmailVerification, error)
	LatestUnconsumed(purpose domain.VerificationPurpose, email string, from, to time.Time) (*domain.EmailVerification, error)
	LatestForTargetSince(email string, since time.Time) (*domain.EmailVerification, error)
	Consume(id uint) error
	ConsumedExistsSince(purpose domain.VerificationPurpose, email string, since time.Time) (bool, error)
}

type PhoneVerificationRepository interface {
	Create(v *domain.PhoneVerification) error
	FindUnconsumed(phoneNumber, countryCode, code string, from, to time.Time) (*domain.PhoneVerification, error)
	LatestUnconsumed(phoneNumber, countryCode string, from, to time.Time) (*domain.PhoneVerification, error)
	LatestForTargetSince(phoneNumber, countryCode string, since time.Time) (*domain.PhoneVerification, error)
	Consume(id uint) error
}

type GormEmailVerificationRepository struct{ db *gorm.DB }

func NewEmailVerificationRepository(db *gorm.DB) EmailVerificationRepository {
	return &GormEmailVerificationRepository{db: db}
}

func (r *GormEmailVerificationRepository) Create(v *domain.EmailVerification) error {
	if err := r.db.Create(v).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "email_verification", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "email_verification", "create", "success")
	return nil
}

func (r *GormEmailVerificationRepository) FindUnconsumed(purpose domain.VerificationPurpose, email, code string, from, to time.Time) (*domain.EmailVerification, error) {
	var v domain.EmailVerification
	err := r.db.
		Where("purpose = ? AND email = ? AND code = ? AND consumed = ? AND created_at >= ? AND created_at < ?",
			purpose, email, code, false, from, to).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormEmailVerificationRepository) LatestUnconsumed(purpose domain.VerificationPurpose, email string, from, to time.Time) (*domain.EmailVerification, error) {
	var v domain.EmailVerification
	err := r.db.
		Where("purpose = ? AND email = ? AND consumed = ? AND created_at >= ? AND created_at < ?",
			purpose, email, false, from, to).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

// LatestForTargetSince spans purposes: the rolling expiry window looks at the
// newest request for the target regardless of what it was issued for.
func (r *GormEmailVerificationRepository) LatestForTargetSince(email string, since time.Time) (*domain.EmailVerification, error) {
	var v domain.EmailVerification
	err := r.db.
		Where("email = ? AND created_at >= ?", email, since).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormEmailVerificationRepository) Consume(id uint) error {
	res := r.db.Model(&domain.EmailVerification{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "email_verification", "consume", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "email_verification", "consume", "not_found")
		return ErrVerificationNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "email_verification", "consume", "success")
	return nil
}

func (r *GormEmailVerificationRepository) ConsumedExistsSince(purpose domain.VerificationPurpose, email string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&domain.EmailVerification{}).
		Where("purpose = ? AND email = ? AND consumed = ? AND created_at >= ?", purpose, email, true, since).
		Count(&count).Error
	return count > 0, err
}

type GormPhoneVerificationRepository struct{ db *gorm.DB }

func NewPhoneVerificationRepository(db *gorm.DB) PhoneVerificationRepository {
	return &GormPhoneVerificationRepository{db: db}
}

func (r *GormPhoneVerificationRepository) Create(v *domain.PhoneVerification) error {
	if err := r.db.Create(v).Error; err != nil {
		observability.RecordRepositoryOperation(context.Background(), "phone_verification", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "phone_verification", "create", "success")
	return nil
}

func (r *GormPhoneVerificationRepository) FindUnconsumed(phoneNumber, countryCode, code string, from, to time.Time) (*domain.PhoneVerification, error) {
	var v domain.PhoneVerification
	err := r.db.
		Where("phone_number = ? AND country_code = ? AND code = ? AND consumed = ? AND created_at >= ? AND created_at < ?",
			phoneNumber, countryCode, code, false, from, to).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormPhoneVerificationRepository) LatestUnconsumed(phoneNumber, countryCode string, from, to time.Time) (*domain.PhoneVerification, error) {
	var v domain.PhoneVerification
	err := r.db.
		Where("phone_number = ? AND country_code = ? AND consumed = ? AND created_at >= ? AND created_at < ?",
			phoneNumber, countryCode, false, from, to).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormPhoneVerificationRepository) LatestForTargetSince(phoneNumber, countryCode string, since time.Time) (*domain.PhoneVerification, error) {
	var v domain.PhoneVerification
	err := r.db.
		Where("phone_number = ? AND country_code = ? AND created_at >= ?", phoneNumber, countryCode, since).
		Order("created_at DESC").
		First(&v).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *GormPhoneVerificationRepository) Consume(id uint) error {
	res := r.db.Model(&domain.PhoneVerification{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "phone_verification", "consume", "error")
		return res.Error
	}
	if res.RowsAffected == 0 {
		observability.RecordRepositoryOperation(context.Background(), "phone_verification", "consume", "not_found")
		return ErrVerificationNotFound
	}
	observability.RecordRepositoryOperation(context.Background(), "phone_verification", "consume", "success")
	return nil
}
