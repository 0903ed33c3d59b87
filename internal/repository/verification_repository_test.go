package repository

import (
	"errors"
	"testing"
	"time"

	"account-auth-service/internal/domain"
)

func TestEmailVerificationRepositoryRecency(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewEmailVerificationRepository(db)

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	older := &domain.EmailVerification{
		Purpose: domain.PurposeSignUp, Email: "a@example.com", Code: "11111111",
		CreatedAt: now.Add(-5 * time.Minute),
	}
	newer := &domain.EmailVerification{
		Purpose: domain.PurposeSignUp, Email: "a@example.com", Code: "22222222",
		CreatedAt: now.Add(-1 * time.Minute),
	}
	for _, v := range []*domain.EmailVerification{older, newer} {
		if err := repo.Create(v); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	latest, err := repo.LatestUnconsumed(domain.PurposeSignUp, "a@example.com", dayStart, dayEnd)
	if err != nil {
		t.Fatalf("LatestUnconsumed: %v", err)
	}
	if latest.ID != newer.ID {
		t.Fatalf("expected newest row %d, got %d", newer.ID, latest.ID)
	}

	match, err := repo.FindUnconsumed(domain.PurposeSignUp, "a@example.com", "11111111", dayStart, dayEnd)
	if err != nil {
		t.Fatalf("FindUnconsumed: %v", err)
	}
	if match.ID != older.ID {
		t.Fatalf("expected the matching row %d, got %d", older.ID, match.ID)
	}

	// Purposes are separate ledgers for matching.
	if _, err := repo.FindUnconsumed(domain.PurposePasswordChange, "a@example.com", "22222222", dayStart, dayEnd); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}
}

func TestEmailVerificationRepositoryConsume(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewEmailVerificationRepository(db)

	now := time.Now()
	v := &domain.EmailVerification{
		Purpose: domain.PurposeSignUp, Email: "b@example.com", Code: "33333333",
		CreatedAt: now,
	}
	if err := repo.Create(v); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Consume(v.ID); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	// A consumed row cannot be consumed again.
	if err := repo.Consume(v.ID); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound on second consume, got %v", err)
	}

	ok, err := repo.ConsumedExistsSince(domain.PurposeSignUp, "b@example.com", now.Add(-time.Minute))
	if err != nil {
		t.Fatalf("ConsumedExistsSince: %v", err)
	}
	if !ok {
		t.Fatal("expected a consumed row inside the window")
	}
	ok, err = repo.ConsumedExistsSince(domain.PurposeSignUp, "b@example.com", now.Add(time.Minute))
	if err != nil {
		t.Fatalf("ConsumedExistsSince: %v", err)
	}
	if ok {
		t.Fatal("expected no consumed row ahead of the window")
	}
}

func TestEmailVerificationRepositoryLatestForTargetSpansPurposes(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewEmailVerificationRepository(db)

	now := time.Now()
	signUp := &domain.EmailVerification{
		Purpose: domain.PurposeSignUp, Email: "c@example.com", Code: "44444444",
		CreatedAt: now.Add(-8 * time.Minute),
	}
	passwordChange := &domain.EmailVerification{
		Purpose: domain.PurposePasswordChange, Email: "c@example.com", Code: "55555555",
		CreatedAt: now.Add(-2 * time.Minute),
	}
	for _, v := range []*domain.EmailVerification{signUp, passwordChange} {
		if err := repo.Create(v); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	latest, err := repo.LatestForTargetSince("c@example.com", now.Add(-10*time.Minute))
	if err != nil {
		t.Fatalf("LatestForTargetSince: %v", err)
	}
	if latest.ID != passwordChange.ID {
		t.Fatalf("expected the newest row regardless of purpose, got %d", latest.ID)
	}

	if _, err := repo.LatestForTargetSince("c@example.com", now.Add(-time.Minute)); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound outside window, got %v", err)
	}
}

func TestPhoneVerificationRepositoryKeyedByNumberAndCountry(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewPhoneVerificationRepository(db)
	account := createAccountForTest(t, db, "PHN001")

	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	v := &domain.PhoneVerification{
		PhoneNumber: "1012345678", CountryCode: "+82", Code: "66666666",
		AccountID: account.ID, CreatedAt: now,
	}
	if err := repo.Create(v); err != nil {
		t.Fatalf("create: %v", err)
	}

	match, err := repo.FindUnconsumed("1012345678", "+82", "66666666", dayStart, dayEnd)
	if err != nil {
		t.Fatalf("FindUnconsumed: %v", err)
	}
	if match.AccountID != account.ID {
		t.Fatalf("unexpected account id %d", match.AccountID)
	}

	if _, err := repo.FindUnconsumed("1012345678", "+1", "66666666", dayStart, dayEnd); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound for wrong country code, got %v", err)
	}

	if err := repo.Consume(v.ID); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if _, err := repo.LatestUnconsumed("1012345678", "+82", dayStart, dayEnd); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound after consume, got %v", err)
	}
}
