package domain

import "time"

type VerificationPurpose string

const (
	PurposeSignUp         VerificationPurpose = "sign_up"
	PurposePasswordChange VerificationPurpose = "password_change"
	PurposeWithdraw       VerificationPurpose = "withdraw"
)

func (p VerificationPurpose) Valid() bool {
	switch p {
	case PurposeSignUp, PurposePasswordChange, PurposeWithdraw:
		return true
	}
	return false
}

// EmailVerification is one issued one-time code. Rows are append-only:
// confirmation flips Consumed, nothing is ever deleted, and superseded
// unconsumed rows become permanently unconfirmable by the recency rule.
type EmailVerification struct {
	ID        uint                `gorm:"primaryKey" json:"id"`
	Purpose   VerificationPurpose `gorm:"size:20;index;not null" json:"purpose"`
	Email     string              `gorm:"size:254;index;not null" json:"email"`
	Code      string              `gorm:"size:10;not null" json:"-"`
	Consumed  bool                `gorm:"not null;default:false" json:"consumed"`
	CreatedAt time.Time           `gorm:"index" json:"created_at"`
}

// PhoneVerification mirrors EmailVerification for the phone channel. The
// issuing account is recorded because a successful confirm writes the
// verified number back onto it.
type PhoneVerification struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PhoneNumber string    `gorm:"size:20;index;not null" json:"phone_number"`
	CountryCode string    `gorm:"size:8;not null" json:"country_code"`
	Code        string    `gorm:"size:10;not null" json:"-"`
	AccountID   uint      `gorm:"index;not null" json:"account_id"`
	Consumed    bool      `gorm:"not null;default:false" json:"consumed"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
