package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"simple-atm/internal/core/ports"
	"simple-atm/pkg/apperror"
)

// AdminServiceImpl authenticates the single configured operator account.
type AdminServiceImpl struct {
	username     string
	passwordHash string
	hashSvc      ports.HashService
	tokenSvc     ports.TokenService
}

// NewAdminService creates a new admin service.
func NewAdminService(username, passwordHash string, hashSvc ports.HashService, tokenSvc ports.TokenService) *AdminServiceImpl {
	return &AdminServiceImpl{
		username:     username,
		passwordHash: passwordHash,
		hashSvc:      hashSvc,
		tokenSvc:     tokenSvc,
	}
}

// Login validates credentials and returns a JWT token.
func (s *AdminServiceImpl) Login(_ context.Context, username, password string) (string, time.Time, error) {
	// Verify the password even on a username mismatch so timing does not
	// reveal which field was wrong.
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1

	valid, err := s.hashSvc.Verify(password, s.passwordHash)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !userOK || !valid {
		return "", time.Time{}, apperror.ErrInvalidCredentials()
	}

	token, expiry, err := s.tokenSvc.Generate(s.username)
	if err != nil {
		return "", time.Time{}, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return token, expiry, nil
}
