package domain

import "time"

type DeviceType string

const (
	DeviceIOS     DeviceType = "ios"
	DeviceAndroid DeviceType = "aos"
)

type Gender string

const (
	GenderMale        Gender = "M"
	GenderFemale      Gender = "F"
	GenderNotSelected Gender = "N"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNotSelected:
		return true
	}
	return false
}

// Account is the user identity row. AccountCode is assigned once at creation
// and never reused; DeletedAt marks withdrawal without removing the row.
type Account struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	AccountCode      string     `gorm:"size:64;uniqueIndex;not null" json:"account_code"`
	Nickname         *string    `gorm:"size:150" json:"nickname,omitempty"`
	PasswordHash     *string    `gorm:"size:128" json:"-"`
	DeviceType       DeviceType `gorm:"size:5;not null" json:"device_type"`
	Gender           *Gender    `gorm:"size:1" json:"gender,omitempty"`
	Height           *uint16    `json:"height,omitempty"`
	Weight           *uint16    `json:"weight,omitempty"`
	Birthdate        *time.Time `json:"birthdate,omitempty"`
	Phone            *string    `gorm:"size:20" json:"phone,omitempty"`
	PhoneCountryCode *string    `gorm:"size:8" json:"phone_country_code,omitempty"`
	ProfileImageURL  string     `gorm:"size:255" json:"profile_image_url"`
	AgreeToAd        bool       `gorm:"not null;default:false" json:"agree_to_ad"`
	PushNotification bool       `gorm:"not null;default:true" json:"push_notification"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	DeletedAt        *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (a *Account) Active() bool { return a.DeletedAt == nil }
