package handler

import (
	"net/http"
	"strconv"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/http/middleware"
	"account-auth-service/internal/http/response"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/security"
	"account-auth-service/internal/service"
)

type AuthHandler struct {
	authSvc       *service.AuthService
	defaultLocale string
}

func NewAuthHandler(authSvc *service.AuthService, defaultLocale string) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, defaultLocale: defaultLocale}
}

func validDeviceType(s string) bool {
	return s == string(domain.DeviceIOS) || s == string(domain.DeviceAndroid)
}

type emailRegistrationRequest struct {
	Email      string `json:"email"`
	Password1  string `json:"password1"`
	Password2  string `json:"password2"`
	DeviceType string `json:"device_type"`
	AgreeToAd  bool   `json:"agree_to_ad"`
}

func (h *AuthHandler) RegisterEmail(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req emailRegistrationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	details := map[string][]string{}
	if req.Email == "" {
		details["email"] = append(details["email"], service.KindEmailRequired)
	} else if !security.ValidEmail(req.Email) {
		details["email"] = append(details["email"], service.KindEmailInvalid)
	}
	if req.Password1 == "" || req.Password2 == "" {
		details["password"] = append(details["password"], service.KindPasswordRequired)
	}
	if !validDeviceType(req.DeviceType) {
		details["device_type"] = append(details["device_type"], service.KindValidation)
	}
	if len(details) > 0 {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, details)
		return
	}

	result, err := h.authSvc.RegisterEmail(r.Context(), req.Email, req.Password1, req.Password2,
		domain.DeviceType(req.DeviceType), req.AgreeToAd)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.register.email",
		ActorUserID: observability.ActorUserID(result.AccountID),
		TargetType:  "account",
		TargetID:    strconv.FormatUint(uint64(result.AccountID), 10),
		Action:      "register",
		Outcome:     "success",
		Reason:      "email_registration",
	})
	response.JSON(w, r, http.StatusCreated, result)
}

type emailLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) LoginEmail(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req emailLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	details := map[string][]string{}
	if req.Email == "" {
		details["email"] = append(details["email"], service.KindEmailRequired)
	}
	if req.Password == "" {
		details["password"] = append(details["password"], service.KindPasswordRequired)
	}
	if len(details) > 0 {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, details)
		return
	}

	result, err := h.authSvc.LoginEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

type socialAuthRequest struct {
	Channel         string `json:"channel"`
	ExternalID      string `json:"external_id"`
	ExternalContact string `json:"external_contact"`
	DeviceType      string `json:"device_type"`
	AgreeToAd       bool   `json:"agree_to_ad"`
	IDToken         string `json:"id_token"`
}

func (h *AuthHandler) RegisterSocial(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req socialAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	channel := domain.Channel(req.Channel)
	details := map[string][]string{}
	if !channel.Valid() || !channel.Social() {
		details["channel"] = append(details["channel"], service.KindValidation)
	}
	if req.ExternalID == "" {
		details["external_id"] = append(details["external_id"], service.KindValidation)
	}
	if !security.ValidEmail(req.ExternalContact) {
		details["external_contact"] = append(details["external_contact"], service.KindEmailInvalid)
	}
	if !validDeviceType(req.DeviceType) {
		details["device_type"] = append(details["device_type"], service.KindValidation)
	}
	if len(details) > 0 {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, details)
		return
	}

	result, err := h.authSvc.RegisterSocial(r.Context(), channel, req.ExternalID, req.ExternalContact,
		domain.DeviceType(req.DeviceType), req.AgreeToAd)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.register.social",
		ActorUserID: observability.ActorUserID(result.AccountID),
		TargetType:  "account",
		TargetID:    strconv.FormatUint(uint64(result.AccountID), 10),
		Action:      "register",
		Outcome:     "success",
		Reason:      string(channel),
	})
	response.JSON(w, r, http.StatusCreated, result)
}

func (h *AuthHandler) LoginSocial(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req socialAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	channel := domain.Channel(req.Channel)
	if !channel.Valid() || !channel.Social() || req.ExternalID == "" || req.ExternalContact == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	result, err := h.authSvc.LoginSocial(r.Context(), channel, req.ExternalID, req.ExternalContact, req.IDToken)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	if err := h.authSvc.Logout(r.Context(), account.ID); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, nil)
}

func (h *AuthHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	if err := h.authSvc.Withdraw(r.Context(), account.ID); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "auth.withdraw",
		ActorUserID: observability.ActorUserID(account.ID),
		TargetType:  "account",
		TargetID:    strconv.FormatUint(uint64(account.ID), 10),
		Action:      "withdraw",
		Outcome:     "success",
		Reason:      "user_requested",
	})
	response.JSON(w, r, http.StatusOK, nil)
}

type passwordChangeRequest struct {
	Type      string `json:"type"`
	Email     string `json:"email"`
	Password1 string `json:"password1"`
	Password2 string `json:"password2"`
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req passwordChangeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	if req.Password1 == "" || req.Password2 == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"password": {service.KindPasswordRequired}})
		return
	}

	var accountID uint
	switch req.Type {
	case service.PasswordChangeTypeChange:
		account, ok := middleware.AccountFromContext(r.Context())
		if !ok {
			response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
			return
		}
		accountID = account.ID
	case service.PasswordChangeTypeFind:
		if !security.ValidEmail(req.Email) {
			response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
				map[string][]string{"email": {service.KindEmailInvalid}})
			return
		}
	default:
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"type": {service.KindValidation}})
		return
	}

	if err := h.authSvc.ChangePassword(r.Context(), req.Type, accountID, req.Email, req.Password1, req.Password2); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, nil)
}
