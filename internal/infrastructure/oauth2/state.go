package oauth2

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const verifierLength = 64

// AuthorizationState is the ephemeral PKCE material for a single
// authorization flow: generated once, consumed by at most one code exchange,
// then discarded with the authorizer.
type AuthorizationState struct {
	CodeVerifier  string
	CodeChallenge string
	State         string
}

// NewAuthorizationState draws fresh verifier, challenge and CSRF state from
// a cryptographically secure source.
func NewAuthorizationState() (*AuthorizationState, error) {
	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, err
	}

	state, err := generateState()
	if err != nil {
		return nil, err
	}

	return &AuthorizationState{
		CodeVerifier:  verifier,
		CodeChallenge: CodeChallenge(verifier),
		State:         state,
	}, nil
}

// generateCodeVerifier returns a secure random code verifier.
func generateCodeVerifier() (string, error) {
	raw := make([]byte, verifierLength)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate code verifier: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// CodeChallenge derives the S256 challenge for a code verifier.
func CodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateState returns a CSRF token: 64 random bytes, SHA-256 hex digested.
func generateState() (string, error) {
	raw := make([]byte, 64)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
