package domain

import "time"

// SessionToken is the opaque bearer credential. The unique index on
// AccountID is the concurrency primitive for issuance: concurrent logins
// race to insert and the loser recovers by delete-then-recreate.
type SessionToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:64;uniqueIndex;not null" json:"key"`
	AccountID uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}
