package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccessNotConfigured = errors.New("Access code not configured")
	ErrInvalidAccessCode   = errors.New("invalid access code")
)

// MaxAccessCodeBytes is the longest code bcrypt can hash.
const MaxAccessCodeBytes = 72

// AccessGate implements Gate with one shared code. Only a bcrypt hash of the
// code is kept in memory.
type AccessGate struct {
	hash []byte
}

// Ensure AccessGate implements Gate
var _ Gate = (*AccessGate)(nil)

// NewAccessGate creates a gate from a precomputed bcrypt hash or, when hash
// is empty, from the plain code. With neither, the gate is unconfigured and
// rejects every attempt with ErrAccessNotConfigured.
func NewAccessGate(code, hash string) (*AccessGate, error) {
	hash = strings.TrimSpace(hash)
	if hash != "" {
		if _, err := bcrypt.Cost([]byte(hash)); err != nil {
			return nil, fmt.Errorf("invalid access code hash: %w", err)
		}
		return &AccessGate{hash: []byte(hash)}, nil
	}

	if code == "" {
		return &AccessGate{}, nil
	}
	if len(code) > MaxAccessCodeBytes {
		return nil, fmt.Errorf("access code is longer than %d bytes", MaxAccessCodeBytes)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash access code: %w", err)
	}
	return &AccessGate{hash: hashed}, nil
}

// Configured reports whether an access code is set.
func (g *AccessGate) Configured() bool {
	return len(g.hash) > 0
}

// Verify compares code against the stored hash in constant time.
func (g *AccessGate) Verify(_ context.Context, code string) error {
	if !g.Configured() {
		return ErrAccessNotConfigured
	}
	if code == "" {
		return ErrInvalidAccessCode
	}
	if err := bcrypt.CompareHashAndPassword(g.hash, []byte(code)); err != nil {
		return ErrInvalidAccessCode
	}
	return nil
}

// HashAccessCode returns the bcrypt hash to put in SCAN_ACCESS_CODE_HASH.
func HashAccessCode(code string) (string, error) {
	if code == "" {
		return "", errors.New("access code is empty")
	}
	if len(code) > MaxAccessCodeBytes {
		return "", fmt.Errorf("access code is longer than %d bytes", MaxAccessCodeBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash access code: %w", err)
	}
	return string(hashed), nil
}
