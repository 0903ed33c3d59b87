package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"account-auth-service/internal/domain"
)

type stubAuthenticator struct {
	authenticateFn func(key string) (*domain.Account, error)
}

func (s *stubAuthenticator) Authenticate(key string) (*domain.Account, error) {
	if s.authenticateFn == nil {
		return nil, errors.New("not implemented")
	}
	return s.authenticateFn(key)
}

func TestRequireAuth(t *testing.T) {
	auth := &stubAuthenticator{
		authenticateFn: func(key string) (*domain.Account, error) {
			if key != "good-key" {
				return nil, errors.New("unknown token")
			}
			return &domain.Account{ID: 5}, nil
		},
	}
	var gotAccountID uint
	h := RequireAuth(auth, "en")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := AccountFromContext(r.Context())
		if !ok {
			t.Fatal("expected account in context")
		}
		gotAccountID = account.ID
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assertUnauthorized(t, rec)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assertUnauthorized(t, rec)
	})

	t.Run("unknown key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token bad-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assertUnauthorized(t, rec)
	})

	t.Run("valid key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Token good-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", rec.Code)
		}
		if gotAccountID != 5 {
			t.Fatalf("unexpected account id %d", gotAccountID)
		}
	})

	t.Run("scheme is case insensitive", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "token good-key")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	})
}

// The 401 body never distinguishes a missing header from a revoked token.
func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body struct {
		StatusCode int    `json:"status_code"`
		Message    string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.StatusCode != 401 || body.Message != "Invalid authentication credentials." {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestOptionalAuth(t *testing.T) {
	auth := &stubAuthenticator{
		authenticateFn: func(key string) (*domain.Account, error) {
			if key != "good-key" {
				return nil, errors.New("unknown token")
			}
			return &domain.Account{ID: 9}, nil
		},
	}
	h := OptionalAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := AccountFromContext(r.Context()); ok {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	// Anonymous requests pass through without an account.
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("anonymous: %d", rec.Code)
	}

	// A bad token is ignored rather than rejected.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token bad-key")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("bad token: %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token good-key")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("good token: %d", rec.Code)
	}
}
