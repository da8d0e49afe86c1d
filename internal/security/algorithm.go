package security

import (
	"strings"
)

// Algorithm selects a hash profile.
type Algorithm string

const (
	SHA256 Algorithm = "sha256"
	SHA512 Algorithm = "sha512"
	MD5    Algorithm = "md5"
	Bcrypt Algorithm = "bcrypt"
)

// Algorithms lists the supported profiles, adaptive first.
func Algorithms() []Algorithm {
	return []Algorithm{Bcrypt, SHA256, SHA512, MD5}
}

// ParseAlgorithm accepts a case-insensitive algorithm name.
func ParseAlgorithm(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if !alg.Valid() {
		return "", ErrUnsupportedAlgorithm
	}
	return alg, nil
}

// Valid reports whether a is a supported profile.
func (a Algorithm) Valid() bool {
	switch a {
	case SHA256, SHA512, MD5, Bcrypt:
		return true
	}
	return false
}

// Adaptive reports whether a takes a cost parameter.
func (a Algorithm) Adaptive() bool { return a == Bcrypt }

// Insecure marks profiles kept only for legacy comparison.
func (a Algorithm) Insecure() bool { return a == MD5 }

// hexLen is the encoded length of a direct digest.
func (a Algorithm) hexLen() int {
	switch a {
	case MD5:
		return 32
	case SHA256:
		return 64
	case SHA512:
		return 128
	}
	return 0
}

// Identify guesses the profile that produced encoded from its shape.
func Identify(encoded string) (Algorithm, error) {
	if strings.HasPrefix(encoded, "$2") {
		return Bcrypt, nil
	}
	if !isHex(encoded) {
		return "", ErrMalformedHash
	}
	for _, alg := range []Algorithm{MD5, SHA256, SHA512} {
		if len(encoded) == alg.hexLen() {
			return alg, nil
		}
	}
	return "", ErrMalformedHash
}

func isHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
