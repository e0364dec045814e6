package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// TokenCodec signs session ids into HS256 cookie tokens and reads them back.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

func (c *TokenCodec) Issue(s Session) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        s.ID,
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(s.LoginTime),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Parse verifies the token and returns the session id it carries.
func (c *TokenCodec) Parse(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if claims.ID == "" {
		return "", ErrInvalidToken
	}
	return claims.ID, nil
}
