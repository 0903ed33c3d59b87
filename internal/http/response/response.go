package response

import (
	"encoding/json"
	"net/http"
	"strings"
)

// errorPayload is the structured error body every surfaced failure uses:
// numeric status code, localized human-readable message, field-level details.
type errorPayload struct {
	StatusCode int                 `json:"status_code"`
	Message    string              `json:"message"`
	Details    map[string][]string `json:"details"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes the catalog message for kind in the given locale. Details may
// carry per-field rule kinds, which are localized individually.
func Error(w http.ResponseWriter, r *http.Request, status int, kind, locale string, details map[string][]string) {
	payload := errorPayload{
		StatusCode: status,
		Message:    Message(kind, locale),
		Details:    map[string][]string{},
	}
	for field, kinds := range details {
		msgs := make([]string, 0, len(kinds))
		for _, k := range kinds {
			msgs = append(msgs, Message(k, locale))
		}
		payload.Details[field] = msgs
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// Locale picks the response language from Accept-Language, falling back to
// the deployment default.
func Locale(r *http.Request, def string) string {
	accept := strings.ToLower(strings.TrimSpace(r.Header.Get("Accept-Language")))
	for _, part := range strings.Split(accept, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.Index(tag, ";"); i >= 0 {
			tag = strings.TrimSpace(tag[:i])
		}
		switch {
		case strings.HasPrefix(tag, "ko"):
			return "ko"
		case strings.HasPrefix(tag, "en"):
			return "en"
		}
	}
	return def
}
