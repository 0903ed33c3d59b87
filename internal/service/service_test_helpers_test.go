package service

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/repository"
	"account-auth-service/internal/security"
)

func newDBForTest(t *testing.T) *gorm.DB {
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

func newStoreForTest(t *testing.T) *repository.Store {
	t.Helper()
	return repository.NewStore(newDBForTest(t))
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := security.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return hash
}

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newVerificationServiceForTest(store *repository.Store) *VerificationService {
	return NewVerificationService(
		store.EmailVerifications,
		store.PhoneVerifications,
		store.Accounts,
		store.Links,
		NewDevNotifier(silentLogger()),
		silentLogger(),
		false,
	)
}
