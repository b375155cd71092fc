package auth

import (
	"crypto/subtle"
	"fmt"
)

// StaticTokenVerifier checks the shared secret presented by other services
// in the x-token header. It proves service identity only; no user claims
// are involved.
type StaticTokenVerifier struct {
	token string
}

// NewStaticTokenVerifier builds a verifier. An empty secret is a
// configuration error and must abort startup.
func NewStaticTokenVerifier(token string) (*StaticTokenVerifier, error) {
	if token == "" {
		return nil, fmt.Errorf("static token verifier: service token is required")
	}
	return &StaticTokenVerifier{token: token}, nil
}

// Verify reports whether candidate equals the configured secret. The
// comparison is constant-time.
func (v *StaticTokenVerifier) Verify(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(v.token)) == 1
}

// Token returns the configured secret. Internal wiring only; never expose
// it in a response.
func (v *StaticTokenVerifier) Token() string {
	return v.token
}
