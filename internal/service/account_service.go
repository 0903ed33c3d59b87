package service

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/repository"
	"account-auth-service/internal/security"
)

const (
	accountCodeLength     = 6
	accountCodeWideLength = 12
	accountCodeAttempts   = 5
)

var nicknamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// NewAccountCode assigns a unique identity code with bounded regeneration:
// after accountCodeAttempts collisions at the short length the code space is
// widened, which guarantees termination without unbounded recursion.
func NewAccountCode(accounts repository.AccountRepository) (string, error) {
	length := accountCodeLength
	for attempt := 0; ; attempt++ {
		if attempt >= accountCodeAttempts {
			length = accountCodeWideLength
		}
		code := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:length])
		exists, err := accounts.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

type ProfilePatch struct {
	Nickname  *string
	Gender    *domain.Gender
	Height    *uint16
	Weight    *uint16
	Birthdate *time.Time
}

type MeView struct {
	ID              uint           `json:"id"`
	Token           string         `json:"token"`
	Nickname        *string        `json:"nickname"`
	LoginChannel    domain.Channel `json:"login_type"`
	Email           *string        `json:"email"`
	Gender          *domain.Gender `json:"gender"`
	Height          *uint16        `json:"height"`
	Weight          *uint16        `json:"weight"`
	Birthdate       *time.Time     `json:"birthdate"`
	ProfileImageURL string         `json:"profile_image_url"`
}

type SettingsView struct {
	PushNotifications       bool `json:"push_notifications"`
	GoogleAuthenticator     bool `json:"google_authenticator"`
	ReceivePromotionalEmail bool `json:"receive_promotional_email"`
}

// AccountService owns profile and settings operations on an authenticated
// account.
type AccountService struct {
	accounts repository.AccountRepository
	links    repository.LoginLinkRepository
	tokens   *TokenService
}

func NewAccountService(accounts repository.AccountRepository, links repository.LoginLinkRepository, tokens *TokenService) *AccountService {
	return &AccountService{accounts: accounts, links: links, tokens: tokens}
}

func (s *AccountService) Me(account *domain.Account) (*MeView, error) {
	link, err := s.links.FindActiveByAccountID(account.ID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, Unprocessable(KindUserNotFound)
		}
		return nil, err
	}
	key, err := s.tokens.CurrentKey(account.ID)
	if err != nil && !errors.Is(err, repository.ErrTokenNotFound) {
		return nil, err
	}
	return &MeView{
		ID:              account.ID,
		Token:           key,
		Nickname:        account.Nickname,
		LoginChannel:    link.Channel,
		Email:           link.Email,
		Gender:          account.Gender,
		Height:          account.Height,
		Weight:          account.Weight,
		Birthdate:       account.Birthdate,
		ProfileImageURL: account.ProfileImageURL,
	}, nil
}

// CheckNickname enforces the alnum-only rule and uniqueness among active
// accounts.
func (s *AccountService) CheckNickname(nickname string, accountID uint) error {
	if !nicknamePattern.MatchString(nickname) {
		return BadRequest(KindNicknameInvalid)
	}
	taken, err := s.accounts.NicknameTaken(nickname, accountID)
	if err != nil {
		return err
	}
	if taken {
		return BadRequest(KindNicknameTaken)
	}
	return nil
}

func (s *AccountService) EditProfile(account *domain.Account, patch ProfilePatch) error {
	if patch.Nickname != nil {
		if err := s.CheckNickname(*patch.Nickname, account.ID); err != nil {
			return err
		}
		account.Nickname = patch.Nickname
	}
	if patch.Gender != nil {
		account.Gender = patch.Gender
	}
	if patch.Height != nil {
		account.Height = patch.Height
	}
	if patch.Weight != nil {
		account.Weight = patch.Weight
	}
	if patch.Birthdate != nil {
		account.Birthdate = patch.Birthdate
	}
	return s.accounts.Update(account)
}

func (s *AccountService) Settings(account *domain.Account) SettingsView {
	return SettingsView{
		PushNotifications:       account.PushNotification,
		GoogleAuthenticator:     false,
		ReceivePromotionalEmail: account.AgreeToAd,
	}
}

func (s *AccountService) TogglePush(account *domain.Account) error {
	account.PushNotification = !account.PushNotification
	return s.accounts.Update(account)
}

func (s *AccountService) ToggleAd(account *domain.Account) error {
	account.AgreeToAd = !account.AgreeToAd
	return s.accounts.Update(account)
}

func (s *AccountService) ConfirmPassword(account *domain.Account, password string) error {
	if account.PasswordHash == nil || !security.CheckPassword(*account.PasswordHash, password) {
		return Unprocessable(KindIncorrectPassword)
	}
	return nil
}

// SetProfileImage records the image URL; the binary upload itself lives in
// an external storage collaborator.
func (s *AccountService) SetProfileImage(account *domain.Account, imageURL string) error {
	account.ProfileImageURL = imageURL
	return s.accounts.Update(account)
}
