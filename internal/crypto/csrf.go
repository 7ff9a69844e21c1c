package crypto

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	csrfIssuer   = "blogdesk"
	csrfAudience = "blogdesk-ui"
)

var ErrInvalidCSRFToken = errors.New("invalid or expired csrf token")

// GenerateCSRFToken creates a signed, short-lived token to embed in HTML forms.
// binding ties the token to one browser, usually the value of a cookie.
func GenerateCSRFToken(secret, binding string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   binding,
		Issuer:    csrfIssuer,
		Audience:  jwt.ClaimStrings{csrfAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateCSRFToken checks the signature, issuer, audience, expiry and binding
// of a form token.
func ValidateCSRFToken(tokenString, secret, binding string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCSRFToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(csrfIssuer), jwt.WithAudience(csrfAudience), jwt.WithSubject(binding), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return ErrInvalidCSRFToken
	}
	return nil
}
