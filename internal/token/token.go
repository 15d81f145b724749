// Package token issues and verifies the signed bearer tokens that prove a
// user's identity between requests.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure. Expired,
// malformed, and wrongly-signed tokens are indistinguishable to the caller.
var ErrInvalidToken = errors.New("invalid token")

// Claims binds a user identifier and a user-type tag to the token.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
}

// Issuer signs and verifies tokens with a process-wide HS256 secret.
type Issuer struct {
	secret []byte
}

func NewIssuer(secret []byte) *Issuer {
	return &Issuer{secret: secret}
}

// Issue produces a signed token embedding the subject, its user type, and an
// expiry ttl from now.
func (i *Issuer) Issue(userID, userType string, ttl time.Duration) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   userID,
		UserType: userType,
	})
	return tok.SignedString(i.secret)
}

// Verify checks signature and expiry and returns the embedded claims.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
