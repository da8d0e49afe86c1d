package passgen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

// Generator draws passwords from a pool. The zero value uses crypto/rand.
type Generator struct {
	// Rand overrides the entropy source. It must be cryptographically secure
	// outside of tests.
	Rand io.Reader
}

// Generate returns a password of exactly length characters drawn from pool
// using crypto/rand.
func Generate(pool Pool, length int) (string, error) {
	return Generator{}.Generate(pool, length)
}

// Generate draws length characters independently and uniformly from pool.
func (g Generator) Generate(pool Pool, length int) (string, error) {
	if pool.Len() == 0 {
		return "", ErrEmptyCharset
	}
	if length <= 0 {
		return "", ErrInvalidLength
	}

	src := g.Rand
	if src == nil {
		src = rand.Reader
	}

	var sb strings.Builder
	sb.Grow(length)
	bound := big.NewInt(int64(pool.Len()))
	for i := 0; i < length; i++ {
		// rand.Int rejects out-of-range samples, so every index is equally likely.
		n, err := rand.Int(src, bound)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		sb.WriteRune(pool.chars[n.Int64()])
	}
	return sb.String(), nil
}
