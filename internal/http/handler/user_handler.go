package handler

import (
	"net/http"
	"strconv"
	"time"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/http/middleware"
	"account-auth-service/internal/http/response"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/service"
)

type UserHandler struct {
	accountSvc    *service.AccountService
	defaultLocale string
}

func NewUserHandler(accountSvc *service.AccountService, defaultLocale string) *UserHandler {
	return &UserHandler{accountSvc: accountSvc, defaultLocale: defaultLocale}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	view, err := h.accountSvc.Me(account)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, view)
}

type profilePatchRequest struct {
	Nickname  *string `json:"nickname"`
	Gender    *string `json:"gender"`
	Height    *uint16 `json:"height"`
	Weight    *uint16 `json:"weight"`
	Birthdate *string `json:"birthdate"`
}

func (h *UserHandler) EditProfile(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	var req profilePatchRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}

	patch := service.ProfilePatch{
		Nickname: req.Nickname,
		Height:   req.Height,
		Weight:   req.Weight,
	}
	if req.Gender != nil {
		gender := domain.Gender(*req.Gender)
		if !gender.Valid() {
			response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
				map[string][]string{"gender": {service.KindValidation}})
			return
		}
		patch.Gender = &gender
	}
	if req.Birthdate != nil {
		birthdate, err := time.Parse("2006-01-02", *req.Birthdate)
		if err != nil {
			response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
				map[string][]string{"birthdate": {service.KindValidation}})
			return
		}
		patch.Birthdate = &birthdate
	}

	if err := h.accountSvc.EditProfile(account, patch); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, nil)
}

type nicknameCheckRequest struct {
	Nickname string `json:"nickname"`
}

func (h *UserHandler) CheckNickname(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	var req nicknameCheckRequest
	if err := decodeJSON(r, &req); err != nil || req.Nickname == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"nickname": {service.KindValidation}})
		return
	}
	if err := h.accountSvc.CheckNickname(req.Nickname, account.ID); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, nil)
}

func (h *UserHandler) Settings(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	response.JSON(w, r, http.StatusOK, h.accountSvc.Settings(account))
}

func (h *UserHandler) TogglePush(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	if err := h.accountSvc.TogglePush(account); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"push_notifications": account.PushNotification})
}

func (h *UserHandler) ToggleAd(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	if err := h.accountSvc.ToggleAd(account); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]bool{"receive_promotional_email": account.AgreeToAd})
}

type passwordConfirmRequest struct {
	Password string `json:"password"`
}

func (h *UserHandler) ConfirmPassword(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	var req passwordConfirmRequest
	if err := decodeJSON(r, &req); err != nil || req.Password == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"password": {service.KindPasswordRequired}})
		return
	}
	if err := h.accountSvc.ConfirmPassword(account, req.Password); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, nil)
}

type profileImageRequest struct {
	ImageURL string `json:"image_url"`
}

func (h *UserHandler) SetProfileImage(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	var req profileImageRequest
	if err := decodeJSON(r, &req); err != nil || req.ImageURL == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"image_url": {service.KindValidation}})
		return
	}
	if err := h.accountSvc.SetProfileImage(account, req.ImageURL); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "user.profile_image.update",
		ActorUserID: observability.ActorUserID(account.ID),
		TargetType:  "account",
		TargetID:    strconv.FormatUint(uint64(account.ID), 10),
		Action:      "update",
		Outcome:     "success",
		Reason:      "profile_image",
	})
	response.JSON(w, r, http.StatusOK, map[string]string{"profile_image_url": account.ProfileImageURL})
}
