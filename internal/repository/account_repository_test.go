package repository

import (
	"errors"
	"testing"
	"time"
)

func TestAccountRepositoryCodeExists(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)
	createAccountForTest(t, db, "AB12CD")

	exists, err := repo.CodeExists("AB12CD")
	if err != nil {
		t.Fatalf("CodeExists: %v", err)
	}
	if !exists {
		t.Fatal("expected code to exist")
	}
	exists, err = repo.CodeExists("ZZ99ZZ")
	if err != nil {
		t.Fatalf("CodeExists: %v", err)
	}
	if exists {
		t.Fatal("expected code to be free")
	}
}

func TestAccountRepositoryNicknameTaken(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	owner := createAccountForTest(t, db, "AAAAAA")
	nickname := "runner42"
	owner.Nickname = &nickname
	if err := repo.Update(owner); err != nil {
		t.Fatalf("update: %v", err)
	}

	taken, err := repo.NicknameTaken("runner42", 0)
	if err != nil {
		t.Fatalf("NicknameTaken: %v", err)
	}
	if !taken {
		t.Fatal("expected nickname to be taken")
	}

	// The owner checking its own nickname is not a conflict.
	taken, err = repo.NicknameTaken("runner42", owner.ID)
	if err != nil {
		t.Fatalf("NicknameTaken: %v", err)
	}
	if taken {
		t.Fatal("expected own nickname to be allowed")
	}

	// Withdrawal clears the nickname and frees it for everyone else.
	if err := repo.SoftDelete(owner.ID, time.Now()); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	taken, err = repo.NicknameTaken("runner42", 0)
	if err != nil {
		t.Fatalf("NicknameTaken: %v", err)
	}
	if taken {
		t.Fatal("expected nickname to be freed after withdrawal")
	}
}

func TestAccountRepositorySoftDelete(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	account := createAccountForTest(t, db, "BBBBBB")
	nickname := "gone"
	account.Nickname = &nickname
	if err := repo.Update(account); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := repo.SetPhone(account.ID, "1012345678", "+82"); err != nil {
		t.Fatalf("SetPhone: %v", err)
	}

	at := time.Now()
	if err := repo.SoftDelete(account.ID, at); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	if _, err := repo.FindActiveByID(account.ID); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound from active lookup, got %v", err)
	}
	got, err := repo.FindByID(account.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.DeletedAt == nil {
		t.Fatal("expected deleted_at to be set")
	}
	if got.Nickname != nil || got.Phone != nil || got.PhoneCountryCode != nil {
		t.Fatalf("expected nickname and phone cleared, got %+v", got)
	}
}

func TestAccountRepositoryUpdateFieldsMissingRow(t *testing.T) {
	db := newRepositoryDBForTest(t)
	repo := NewAccountRepository(db)

	if err := repo.SetPasswordHash(999, "x"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if err := repo.SetLastLogin(999, time.Now()); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
