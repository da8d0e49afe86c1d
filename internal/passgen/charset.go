// Package passgen builds character pools and draws random passwords from them.
package passgen

import (
	"errors"
	"fmt"
	"strings"
)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
	symbols   = "!@#$%^&*()_+-=[]{}|;:,.<>?"

	// SimilarChars are removed when Config.ExcludeSimilar is set.
	SimilarChars = "il1Lo0O"
	// AmbiguousChars are removed when Config.ExcludeAmbiguous is set.
	AmbiguousChars = "{}[]()/\\'\"~,;<>."
)

var (
	// ErrConfiguration is the parent of every error caused by caller input.
	ErrConfiguration = errors.New("configuration error")
	// ErrEmptyCharset signals that no character is left to draw from.
	ErrEmptyCharset = fmt.Errorf("%w: character pool is empty", ErrConfiguration)
	// ErrInvalidLength signals a non-positive password length.
	ErrInvalidLength = fmt.Errorf("%w: length must be positive", ErrConfiguration)
)

// Config selects the character classes of a generated password.
type Config struct {
	Length           int  `json:"length"`
	Uppercase        bool `json:"uppercase"`
	Lowercase        bool `json:"lowercase"`
	Digits           bool `json:"digits"`
	Symbols          bool `json:"symbols"`
	ExcludeSimilar   bool `json:"exclude_similar"`
	ExcludeAmbiguous bool `json:"exclude_ambiguous"`
}

// DefaultConfig returns a 16 character config with every class enabled.
func DefaultConfig() Config {
	return Config{
		Length:    16,
		Uppercase: true,
		Lowercase: true,
		Digits:    true,
		Symbols:   true,
	}
}

// Pool is an ordered set of distinct candidate characters.
type Pool struct {
	chars []rune
}

// NewPool deduplicates chars, keeping first occurrences in order.
func NewPool(chars string) (Pool, error) {
	seen := make(map[rune]struct{}, len(chars))
	out := make([]rune, 0, len(chars))
	for _, r := range chars {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return Pool{}, ErrEmptyCharset
	}
	return Pool{chars: out}, nil
}

// Len returns the number of distinct characters.
func (p Pool) Len() int { return len(p.chars) }

// Contains reports whether r belongs to the pool.
func (p Pool) Contains(r rune) bool {
	for _, c := range p.chars {
		if c == r {
			return true
		}
	}
	return false
}

func (p Pool) String() string { return string(p.chars) }

// BuildCharset turns cfg into a pool. The length field is not inspected.
func BuildCharset(cfg Config) (Pool, error) {
	var sb strings.Builder
	if cfg.Lowercase {
		sb.WriteString(lowercase)
	}
	if cfg.Uppercase {
		sb.WriteString(uppercase)
	}
	if cfg.Digits {
		sb.WriteString(digits)
	}
	if cfg.Symbols {
		sb.WriteString(symbols)
	}

	charset := sb.String()
	if cfg.ExcludeSimilar {
		charset = removeAll(charset, SimilarChars)
	}
	if cfg.ExcludeAmbiguous {
		charset = removeAll(charset, AmbiguousChars)
	}
	return NewPool(charset)
}

func removeAll(s, cutset string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(cutset, r) {
			return -1
		}
		return r
	}, s)
}
