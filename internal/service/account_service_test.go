package service

import (
	"context"
	"testing"
	"time"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/repository"
)

func newAccountServiceForTest(t *testing.T) (*AccountService, *repository.Store) {
	t.Helper()
	store := newStoreForTest(t)
	tokens := NewTokenService(store.Tokens, store.Accounts)
	return NewAccountService(store.Accounts, store.Links, tokens), store
}

func registerAccountForTest(t *testing.T, store *repository.Store, code, email string) *domain.Account {
	t.Helper()
	account := &domain.Account{AccountCode: code, DeviceType: domain.DeviceIOS, PushNotification: true}
	if err := store.Accounts.Create(account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	if err := store.Links.Create(&domain.LoginLink{
		Channel: domain.ChannelEmail, Email: &email, AccountID: account.ID,
	}); err != nil {
		t.Fatalf("create link: %v", err)
	}
	return account
}

func TestAccountServiceMe(t *testing.T) {
	svc, store := newAccountServiceForTest(t)
	account := registerAccountForTest(t, store, "ME0001", "me@example.com")

	key, err := svc.tokens.Issue(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	view, err := svc.Me(account)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if view.ID != account.ID || view.Token != key {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.LoginChannel != domain.ChannelEmail || view.Email == nil || *view.Email != "me@example.com" {
		t.Fatalf("unexpected link fields %+v", view)
	}
}

func TestAccountServiceMeWithoutToken(t *testing.T) {
	svc, store := newAccountServiceForTest(t)
	account := registerAccountForTest(t, store, "ME0002", "quiet@example.com")

	view, err := svc.Me(account)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if view.Token != "" {
		t.Fatalf("expected empty token, got %q", view.Token)
	}
}

func TestAccountServiceCheckNickname(t *testing.T) {
	svc, store := newAccountServiceForTest(t)
	owner := registerAccountForTest(t, store, "NCK001", "owner@example.com")
	nickname := "taken1"
	owner.Nickname = &nickname
	if err := store.Accounts.Update(owner); err != nil {
		t.Fatalf("update: %v", err)
	}

	err := svc.CheckNickname("한글닉네임", 0)
	assertFlowKind(t, err, 400, KindNicknameInvalid)
	err = svc.CheckNickname("has space", 0)
	assertFlowKind(t, err, 400, KindNicknameInvalid)

	err = svc.CheckNickname("taken1", 0)
	assertFlowKind(t, err, 400, KindNicknameTaken)

	// The owner may keep its own nickname.
	if err := svc.CheckNickname("taken1", owner.ID); err != nil {
		t.Fatalf("CheckNickname for owner: %v", err)
	}
	if err := svc.CheckNickname("fresh42", 0); err != nil {
		t.Fatalf("CheckNickname: %v", err)
	}
}

func TestAccountServiceEditProfile(t *testing.T) {
	svc, store := newAccountServiceForTest(t)
	account := registerAccountForTest(t, store, "EDT001", "edit@example.com")

	nickname := "editor1"
	gender := domain.GenderFemale
	height := uint16(170)
	weight := uint16(60)
	birthdate := time.Date(1994, 5, 2, 0, 0, 0, 0, time.UTC)
	if err := svc.EditProfile(account, ProfilePatch{
		Nickname:  &nickname,
		Gender:    &gender,
		Height:    &height,
		Weight:    &weight,
		Birthdate: &birthdate,
	}); err != nil {
		t.Fatalf("EditProfile: %v", err)
	}

	got, err := store.Accounts.FindByID(account.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Nickname == nil || *got.Nickname != "editor1" {
		t.Fatalf("nickname not persisted: %+v", got.Nickname)
	}
	if got.Gender == nil || *got.Gender != domain.GenderFemale {
		t.Fatalf("gender not persisted: %+v", got.Gender)
	}
	if got.Height == nil || *got.Height != 170 || got.Weight == nil || *got.Weight != 60 {
		t.Fatalf("measurements not persisted: %+v", got)
	}

	// A partial patch leaves the other fields alone.
	newWeight := uint16(58)
	if err := svc.EditProfile(got, ProfilePatch{Weight: &newWeight}); err != nil {
		t.Fatalf("EditProfile: %v", err)
	}
	got, err = store.Accounts.FindByID(account.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.Nickname == nil || *got.Nickname != "editor1" {
		t.Fatalf("nickname lost on partial patch: %+v", got.Nickname)
	}
	if got.Weight == nil || *got.Weight != 58 {
		t.Fatalf("weight not updated: %+v", got.Weight)
	}
}

func TestAccountServiceToggles(t *testing.T) {
	svc, store := newAccountServiceForTest(t)
	account := registerAccountForTest(t, store, "TGL001", "toggle@example.com")

	settings := svc.Settings(account)
	if !settings.PushNotifications || settings.ReceivePromotionalEmail {
		t.Fatalf("unexpected defaults %+v", settings)
	}

	if err := svc.TogglePush(account); err != nil {
		t.Fatalf("TogglePush: %v", err)
	}
	if err := svc.ToggleAd(account); err != nil {
		t.Fatalf("ToggleAd: %v", err)
	}

	got, err := store.Accounts.FindByID(account.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if got.PushNotification {
		t.Fatal("expected push toggled off")
	}
	if !got.AgreeToAd {
		t.Fatal("expected ad agreement toggled on")
	}
}

func TestAccountServiceConfirmPassword(t *testing.T) {
	svc, store := newAccountServiceForTest(t)
	account := registerAccountForTest(t, store, "CNF001", "confirm@example.com")

	// No credential at all means nothing can match.
	err := svc.ConfirmPassword(account, "whatever1")
	assertFlowKind(t, err, 422, KindIncorrectPassword)

	if err := store.Accounts.SetPasswordHash(account.ID, mustHash(t, "rightPass1")); err != nil {
		t.Fatalf("SetPasswordHash: %v", err)
	}
	account, err = store.Accounts.FindByID(account.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}

	err = svc.ConfirmPassword(account, "wrongPass1")
	assertFlowKind(t, err, 422, KindIncorrectPassword)
	if err := svc.ConfirmPassword(account, "rightPass1"); err != nil {
		t.Fatalf("ConfirmPassword: %v", err)
	}
}

func TestNewAccountCodeWidensAfterCollisions(t *testing.T) {
	collisions := 0
	accounts := &stubAccountRepository{}
	accounts.codeExistsFn = func(code string) (bool, error) {
		// Force collisions until the code space widens.
		if len(code) == 6 {
			collisions++
			return true, nil
		}
		return false, nil
	}

	code, err := NewAccountCode(accounts)
	if err != nil {
		t.Fatalf("NewAccountCode: %v", err)
	}
	if len(code) != 12 {
		t.Fatalf("expected widened 12 char code, got %q", code)
	}
	if collisions != 5 {
		t.Fatalf("expected 5 short attempts, got %d", collisions)
	}
}
