// Package password decides how account passwords are stored and compared.
package password

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	KindPlain  = "plain"
	KindBcrypt = "bcrypt"
)

// Hasher turns a password into its stored form and checks candidates against it.
type Hasher interface {
	Hash(password string) (string, error)
	Matches(stored, candidate string) bool
}

// New returns the Hasher for kind. An empty kind means plain.
func New(kind string) (Hasher, error) {
	switch kind {
	case "", KindPlain:
		return Plain{}, nil
	case KindBcrypt:
		return Bcrypt{Cost: bcrypt.DefaultCost}, nil
	default:
		return nil, fmt.Errorf("unknown password hashing %q", kind)
	}
}

// Plain stores passwords as given and compares them exactly.
type Plain struct{}

func (Plain) Hash(password string) (string, error) { return password, nil }

func (Plain) Matches(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}

// Bcrypt stores bcrypt hashes.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), b.Cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (Bcrypt) Matches(stored, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
}
