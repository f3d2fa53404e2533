package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrWeakPassword       = errors.New("password must be at least 12 characters")
)

// OperatorAuthenticator checks the single configured operator account
// against a bcrypt hash.
type OperatorAuthenticator struct {
	name         string
	passwordHash []byte
}

// NewOperatorAuthenticator creates an authenticator for one operator.
// passwordHash is a bcrypt hash, as produced by HashPassword.
func NewOperatorAuthenticator(name, passwordHash string) (*OperatorAuthenticator, error) {
	if name == "" {
		return nil, fmt.Errorf("operator name is required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("invalid operator password hash: %w", err)
	}
	return &OperatorAuthenticator{
		name:         name,
		passwordHash: []byte(passwordHash),
	}, nil
}

// Authenticate verifies the name and password.
func (a *OperatorAuthenticator) Authenticate(_ context.Context, name, credential string) error {
	nameOK := subtle.ConstantTimeCompare([]byte(name), []byte(a.name)) == 1
	// Always run bcrypt so a wrong name costs the same as a wrong password.
	err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(credential))
	if !nameOK || err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns the bcrypt hash to put in OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 12 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}
