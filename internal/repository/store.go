package repository

import "gorm.io/gorm"

// Store bundles the repositories over one gorm handle so the orchestrator
// can run multi-row mutations in a single transaction.
type Store struct {
	db *gorm.DB

	Accounts           AccountRepository
	Links              LoginLinkRepository
	EmailVerifications EmailVerificationRepository
	PhoneVerifications PhoneVerificationRepository
	Tokens             SessionTokenRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:                 db,
		Accounts:           NewAccountRepository(db),
		Links:              NewLoginLinkRepository(db),
		EmailVerifications: NewEmailVerificationRepository(db),
		PhoneVerifications: NewPhoneVerificationRepository(db),
		Tokens:             NewSessionTokenRepository(db),
	}
}

// Transaction runs fn against a Store bound to one transaction. Either every
// row change in fn commits or none do.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
