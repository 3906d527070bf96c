// Package auth issues and checks the API keys handed out by the keys
// endpoint, and hashes customer passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrInactiveKey       = errors.New("inactive or unknown API key")
)

// Claims carried by an API key. ID is the key_id, Subject the customer_id.
type Claims struct {
	jwt.RegisteredClaims
}

// Tokens signs API keys as HS256 JWTs so a presented key can be checked
// before the store is consulted.
type Tokens struct {
	secret []byte
	now    func() time.Time
}

func NewTokens(secret string) *Tokens {
	return &Tokens{secret: []byte(secret), now: time.Now}
}

func (t *Tokens) Issue(keyID, customerID string) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       keyID,
			Subject:  customerID,
			IssuedAt: jwt.NewNumericDate(t.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *Tokens) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if !parsed.Valid || claims.ID == "" {
		return nil, ErrInvalidCredential
	}
	return claims, nil
}
