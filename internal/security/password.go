package security

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxBytes is the longest input bcrypt consumes.
const bcryptMaxBytes = 72

// hashBcrypt hashes with bcrypt; the salt is drawn from crypto/rand by the library.
func hashBcrypt(password string, cost int) (string, error) {
	if len(password) > bcryptMaxBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%w: bcrypt: %w", ErrHash, err)
	}
	return string(hash), nil
}

// checkBcrypt compares a bcrypt hash with password.
func checkBcrypt(encoded, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
}

// bcryptPrefixes are the variants bcrypt.CompareHashAndPassword handles
// correctly. $2x$ marks hashes from the broken crypt_blowfish release.
var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// bcryptCost reports the cost embedded in a bcrypt hash without running it.
func bcryptCost(encoded string) (int, error) {
	known := false
	for _, prefix := range bcryptPrefixes {
		if strings.HasPrefix(encoded, prefix) {
			known = true
			break
		}
	}
	if !known {
		return 0, ErrMalformedHash
	}
	cost, err := bcrypt.Cost([]byte(encoded))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformedHash, err)
	}
	return cost, nil
}
