package service

import "net/http"

// Error kinds surfaced to clients. Handlers translate a kind into a
// localized message through the response catalog; services never carry
// user-facing strings.
const (
	KindEmailRequired     = "email_required"
	KindEmailInvalid      = "email_invalid"
	KindEmailExists       = "email_exists"
	KindAlreadyRegistered = "already_registered"
	KindUnregisteredEmail = "unregistered_email"

	KindPasswordRequired  = "password_required"
	KindPasswordMismatch  = "password_mismatch"
	KindPasswordFormat    = "password_format"
	KindIncorrectPassword = "incorrect_password"

	KindIncorrectCode        = "incorrect_code"
	KindTimeExpired          = "time_expired"
	KindVerificationExpired  = "verification_expired"
	KindInvalidIDToken       = "invalid_id_token"
	KindGoogleIDMismatch     = "google_id_mismatch"
	KindSocialExists         = "social_exists"
	KindSocialNotFound       = "social_not_found"
	KindUserNotFound         = "user_not_found"
	KindNicknameInvalid      = "nickname_invalid"
	KindNicknameTaken        = "nickname_taken"
	KindValidation           = "validation"
	KindUnauthorized         = "unauthorized"
	KindInternal             = "internal"
)

// FlowError is a business-rule violation carried as a value through the
// orchestrator instead of a caught-and-rethrown exception. Details holds
// field-level validation kinds.
type FlowError struct {
	Status  int
	Kind    string
	Details map[string][]string
}

func (e *FlowError) Error() string { return e.Kind }

func Unprocessable(kind string) *FlowError {
	return &FlowError{Status: http.StatusUnprocessableEntity, Kind: kind}
}

func BadRequest(kind string) *FlowError {
	return &FlowError{Status: http.StatusBadRequest, Kind: kind}
}

func NotFound(kind string) *FlowError {
	return &FlowError{Status: http.StatusNotFound, Kind: kind}
}

func ValidationFailed(details map[string][]string) *FlowError {
	return &FlowError{Status: http.StatusBadRequest, Kind: KindValidation, Details: details}
}
