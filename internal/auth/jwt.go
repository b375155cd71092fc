package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is the single error returned for every verification
// failure. Bad signature, expiry and malformed structure are deliberately
// indistinguishable to callers.
var ErrInvalidToken = errors.New("invalid token")

// Claims defines the JWT claims structure carried by issued tokens.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies end-user bearer tokens with HS256.
type TokenManager struct {
	secret []byte
	expiry time.Duration
}

// NewTokenManager builds a TokenManager. A missing secret or non-positive
// expiry is a configuration error and must abort startup.
func NewTokenManager(secret string, expiry time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token manager: signing secret is required")
	}
	if expiry <= 0 {
		return nil, fmt.Errorf("token manager: expiry must be positive")
	}
	return &TokenManager{secret: []byte(secret), expiry: expiry}, nil
}

// Generate creates a new signed token for the given user.
func (m *TokenManager) Generate(userID, email string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies a token string, returning its claims.
func (m *TokenManager) Validate(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
