package repository

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"account-auth-service/internal/domain"
)

func newRepositoryDBForTest(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&domain.Account{},
		&domain.LoginLink{},
		&domain.EmailVerification{},
		&domain.PhoneVerification{},
		&domain.SessionToken{},
	); err != nil {
		t.Fatalf("migrate db: %v", err)
	}
	return db
}

func createAccountForTest(t *testing.T, db *gorm.DB, code string) *domain.Account {
	t.Helper()
	account := &domain.Account{
		AccountCode:      code,
		DeviceType:       domain.DeviceIOS,
		PushNotification: true,
	}
	if err := NewAccountRepository(db).Create(account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}
