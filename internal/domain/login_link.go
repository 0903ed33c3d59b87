package domain

import "time"

type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelGoogle Channel = "google"
	ChannelApple  Channel = "apple"
)

func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelGoogle, ChannelApple:
		return true
	}
	return false
}

func (c Channel) Social() bool { return c == ChannelGoogle || c == ChannelApple }

// LoginLink binds one channel identity to one account. Rows are never
// deleted; withdraw nulls ExternalID and Email in place, leaving an audit
// row keyed by channel. Uniqueness of (channel, email) and (channel,
// external id) holds only among links of active accounts, so it is enforced
// in the repository rather than by a DB unique index.
type LoginLink struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Channel    Channel   `gorm:"size:8;index;not null" json:"channel"`
	ExternalID *string   `gorm:"size:200;index" json:"external_id,omitempty"`
	Email      *string   `gorm:"size:254;index" json:"email,omitempty"`
	AccountID  uint      `gorm:"index;not null" json:"account_id"`
	Account    Account   `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
