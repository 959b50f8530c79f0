package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicate          = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrBackend            = errors.New("backend unavailable")
)

func invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}

func backend(err error) error {
	return fmt.Errorf("%w: %w", ErrBackend, err)
}
