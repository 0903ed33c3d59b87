package security

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
)

const googleIssuer = "https://accounts.google.com"

var (
	ErrIDTokenInvalid   = errors.New("id token invalid")
	ErrSubjectMismatch  = errors.New("id token subject mismatch")
	ErrVerifierDisabled = errors.New("google verifier not configured")
)

// IDTokenVerifier corroborates a caller-supplied provider subject against a
// provider-issued identity token.
type IDTokenVerifier interface {
	VerifySubject(ctx context.Context, idToken, subject string) error
}

// GoogleVerifier validates Google id_tokens against the provider's public
// keys and compares the sub claim to the subject the caller asserts.
type GoogleVerifier struct {
	clientID string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

func (g *GoogleVerifier) VerifySubject(ctx context.Context, idToken, subject string) error {
	if g.clientID == "" {
		return ErrVerifierDisabled
	}
	verifier, err := g.tokenVerifier(ctx)
	if err != nil {
		return fmt.Errorf("init google verifier: %w", err)
	}
	token, err := verifier.Verify(ctx, idToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIDTokenInvalid, err)
	}
	if token.Subject != subject {
		return ErrSubjectMismatch
	}
	return nil
}

func (g *GoogleVerifier) tokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.verifier != nil {
		return g.verifier, nil
	}
	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return nil, err
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.clientID})
	return g.verifier, nil
}
