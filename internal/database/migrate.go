package database

import (
	"account-auth-service/internal/domain"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Account{},
		&domain.LoginLink{},
		&domain.EmailVerification{},
		&domain.PhoneVerification{},
		&domain.SessionToken{},
	)
}
