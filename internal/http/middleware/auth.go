package middleware

import (
	"context"
	"net/http"
	"strings"

	"account-auth-service/internal/domain"
	"account-auth-service/internal/http/response"
)

type contextKey string

const accountContextKey contextKey = "auth.account"

// Authenticator resolves an opaque bearer key to its active account.
type Authenticator interface {
	Authenticate(key string) (*domain.Account, error)
}

func AccountFromContext(ctx context.Context) (*domain.Account, bool) {
	account, ok := ctx.Value(accountContextKey).(*domain.Account)
	return account, ok
}

func bearerKey(r *http.Request) string {
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	const scheme = "token "
	if len(auth) > len(scheme) && strings.EqualFold(auth[:len(scheme)], scheme) {
		return strings.TrimSpace(auth[len(scheme):])
	}
	return ""
}

// RequireAuth rejects requests without a valid token. The 401 body carries
// one fixed localized message regardless of whether the token was missing,
// unknown or belonged to a withdrawn account.
func RequireAuth(auth Authenticator, defaultLocale string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bearerKey(r)
			if key == "" {
				response.Error(w, r, http.StatusUnauthorized, "unauthorized", response.Locale(r, defaultLocale), nil)
				return
			}
			account, err := auth.Authenticate(key)
			if err != nil {
				response.Error(w, r, http.StatusUnauthorized, "unauthorized", response.Locale(r, defaultLocale), nil)
				return
			}
			ctx := context.WithValue(r.Context(), accountContextKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the account when a valid token is supplied and lets
// anonymous requests through. Flows like the withdraw-purpose verification
// check for the account themselves.
func OptionalAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key := bearerKey(r); key != "" {
				if account, err := auth.Authenticate(key); err == nil {
					r = r.WithContext(context.WithValue(r.Context(), accountContextKey, account))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
