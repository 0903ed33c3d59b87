package handler

import (
	"net/http"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/http/middleware"
	"account-auth-service/internal/http/response"
	"account-auth-service/internal/observability"
	"account-auth-service/internal/security"
	"account-auth-service/internal/service"
)

type VerificationHandler struct {
	verificationSvc *service.VerificationService
	authSvc         *service.AuthService
	defaultLocale   string
}

func NewVerificationHandler(verificationSvc *service.VerificationService, authSvc *service.AuthService, defaultLocale string) *VerificationHandler {
	return &VerificationHandler{
		verificationSvc: verificationSvc,
		authSvc:         authSvc,
		defaultLocale:   defaultLocale,
	}
}

type emailVerificationRequest struct {
	Type  string `json:"type"`
	Email string `json:"email"`
	Code  string `json:"code"`
}

// resolveEmailTarget applies the withdraw rule: the target email comes from
// the caller's own link, never from the request body.
func (h *VerificationHandler) resolveEmailTarget(w http.ResponseWriter, r *http.Request, req *emailVerificationRequest, locale string) (domain.VerificationPurpose, string, bool) {
	purpose := domain.VerificationPurpose(req.Type)
	if !purpose.Valid() {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"type": {service.KindValidation}})
		return "", "", false
	}
	if purpose == domain.PurposeWithdraw {
		account, ok := middleware.AccountFromContext(r.Context())
		if !ok {
			response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
			return "", "", false
		}
		email, err := h.authSvc.EmailForAccount(account.ID)
		if err != nil {
			writeServiceError(w, r, err, locale)
			return "", "", false
		}
		return purpose, email, true
	}
	if !security.ValidEmail(req.Email) {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"email": {service.KindEmailInvalid}})
		return "", "", false
	}
	return purpose, req.Email, true
}

func (h *VerificationHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req emailVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	purpose, email, ok := h.resolveEmailTarget(w, r, &req, locale)
	if !ok {
		return
	}
	code, err := h.verificationSvc.IssueEmail(r.Context(), purpose, email)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	if h.verificationSvc.Production() {
		response.JSON(w, r, http.StatusOK, nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"code": code})
}

func (h *VerificationHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	var req emailVerificationRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	if req.Code == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale,
			map[string][]string{"code": {service.KindValidation}})
		return
	}
	purpose, email, ok := h.resolveEmailTarget(w, r, &req, locale)
	if !ok {
		return
	}
	if err := h.verificationSvc.ConfirmEmail(r.Context(), purpose, email, req.Code); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	response.JSON(w, r, http.StatusOK, nil)
}

type phoneVerificationRequest struct {
	CountryCode string `json:"country_code"`
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

func (h *VerificationHandler) SendPhone(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	var req phoneVerificationRequest
	if err := decodeJSON(r, &req); err != nil || req.CountryCode == "" || req.PhoneNumber == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	code, err := h.verificationSvc.IssuePhone(r.Context(), account.ID, req.CountryCode, req.PhoneNumber)
	if err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	if h.verificationSvc.Production() {
		response.JSON(w, r, http.StatusOK, nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"code": code})
}

func (h *VerificationHandler) ConfirmPhone(w http.ResponseWriter, r *http.Request) {
	locale := response.Locale(r, h.defaultLocale)
	account, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, service.KindUnauthorized, locale, nil)
		return
	}
	var req phoneVerificationRequest
	if err := decodeJSON(r, &req); err != nil || req.CountryCode == "" || req.PhoneNumber == "" || req.Code == "" {
		response.Error(w, r, http.StatusBadRequest, service.KindValidation, locale, nil)
		return
	}
	if err := h.verificationSvc.ConfirmPhone(r.Context(), account, req.CountryCode, req.PhoneNumber, req.Code); err != nil {
		writeServiceError(w, r, err, locale)
		return
	}
	observability.EmitAudit(r, observability.AuditInput{
		EventName:   "verification.phone.confirm",
		ActorUserID: observability.ActorUserID(account.ID),
		TargetType:  "phone",
		TargetID:    req.PhoneNumber,
		Action:      "confirm",
		Outcome:     "success",
		Reason:      "phone_verified",
	})
	response.JSON(w, r, http.StatusOK, nil)
}
