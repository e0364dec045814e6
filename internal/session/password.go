package session

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier checks the admin password against a bcrypt hash.
type PasswordVerifier struct {
	hash []byte
}

// NewPasswordVerifier prefers a configured bcrypt hash and otherwise hashes the
// plain password once at startup.
func NewPasswordVerifier(plain, hash string) (*PasswordVerifier, error) {
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid admin password hash: %w", err)
		}
		return &PasswordVerifier{hash: []byte(hash)}, nil
	}
	if plain == "" {
		return nil, errors.New("admin password is not configured")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &PasswordVerifier{hash: h}, nil
}

func (v *PasswordVerifier) Verify(password string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(password)) == nil
}
