package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"account-auth-service/internal/http/response"
	"account-auth-service/internal/service"
)

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeServiceError surfaces business-rule violations with their structured
// payload and hides everything else behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, locale string) {
	var flowErr *service.FlowError
	if errors.As(err, &flowErr) {
		response.Error(w, r, flowErr.Status, flowErr.Kind, locale, flowErr.Details)
		return
	}
	slog.ErrorContext(r.Context(), "unexpected failure", "path", r.URL.Path, "error", err)
	response.Error(w, r, http.StatusInternalServerError, service.KindInternal, locale, nil)
}
