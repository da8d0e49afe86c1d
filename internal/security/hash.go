// Package security computes and verifies one-way password hashes.
package security

import (
	"crypto/md5"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinCost and MaxCost bound the bcrypt work factor accepted by the engine.
	MinCost = bcrypt.MinCost
	MaxCost = 15
	// DefaultCost is used when a request leaves the cost unset.
	DefaultCost = 12
)

var (
	// ErrHash is the parent of every hashing failure.
	ErrHash = errors.New("hash error")
	// ErrUnsupportedAlgorithm signals an unknown algorithm selector.
	ErrUnsupportedAlgorithm = fmt.Errorf("%w: unsupported algorithm", ErrHash)
	// ErrInvalidCost signals a bcrypt cost outside the engine bounds.
	ErrInvalidCost = fmt.Errorf("%w: cost out of range", ErrHash)
	// ErrPasswordTooLong signals input bcrypt would silently truncate.
	ErrPasswordTooLong = fmt.Errorf("%w: password exceeds %d bytes", ErrHash, bcryptMaxBytes)
	// ErrMalformedHash signals an encoded hash that cannot be parsed.
	ErrMalformedHash = fmt.Errorf("%w: malformed hash", ErrHash)
)

// Request describes a single hash computation. Password is never logged or
// included in errors.
type Request struct {
	Password  string
	Algorithm Algorithm
	// Cost is the bcrypt log2 work factor; zero selects DefaultCost. Other
	// algorithms ignore it.
	Cost int
}

// Result is an encoded hash.
type Result struct {
	Algorithm Algorithm `json:"algorithm"`
	Encoded   string    `json:"hash"`
	Insecure  bool      `json:"insecure"`
	Cost      int       `json:"cost,omitempty"`
}

// Engine hashes passwords. Safe for concurrent use.
type Engine struct {
	minCost     int
	maxCost     int
	defaultCost int
}

// NewEngine builds an engine accepting bcrypt costs in [minCost, maxCost].
func NewEngine(minCost, maxCost, defaultCost int) (*Engine, error) {
	if minCost < bcrypt.MinCost || maxCost > bcrypt.MaxCost || minCost > maxCost {
		return nil, fmt.Errorf("invalid cost bounds [%d, %d]", minCost, maxCost)
	}
	if defaultCost < minCost || defaultCost > maxCost {
		return nil, fmt.Errorf("default cost %d outside [%d, %d]", defaultCost, minCost, maxCost)
	}
	return &Engine{minCost: minCost, maxCost: maxCost, defaultCost: defaultCost}, nil
}

// DefaultEngine accepts costs in [MinCost, MaxCost] and defaults to DefaultCost.
func DefaultEngine() *Engine {
	return &Engine{minCost: MinCost, maxCost: MaxCost, defaultCost: DefaultCost}
}

// CostBounds returns the accepted bcrypt cost range and default.
func (e *Engine) CostBounds() (lo, hi, def int) {
	return e.minCost, e.maxCost, e.defaultCost
}

// Hash computes the digest described by req.
func (e *Engine) Hash(req Request) (Result, error) {
	if !req.Algorithm.Valid() {
		return Result{}, ErrUnsupportedAlgorithm
	}

	if req.Algorithm.Adaptive() {
		cost := req.Cost
		if cost == 0 {
			cost = e.defaultCost
		}
		if cost < e.minCost || cost > e.maxCost {
			return Result{}, ErrInvalidCost
		}
		encoded, err := hashBcrypt(req.Password, cost)
		if err != nil {
			return Result{}, err
		}
		return Result{Algorithm: Bcrypt, Encoded: encoded, Cost: cost}, nil
	}

	return Result{
		Algorithm: req.Algorithm,
		Encoded:   hexDigest(req.Algorithm, req.Password),
		Insecure:  req.Algorithm.Insecure(),
	}, nil
}

// Verify reports whether password produces encoded under alg. An empty alg is
// identified from the encoded form.
func (e *Engine) Verify(alg Algorithm, password, encoded string) (bool, error) {
	if alg == "" {
		identified, err := Identify(encoded)
		if err != nil {
			return false, err
		}
		alg = identified
	}
	if !alg.Valid() {
		return false, ErrUnsupportedAlgorithm
	}

	if alg.Adaptive() {
		if len(password) > bcryptMaxBytes {
			return false, ErrPasswordTooLong
		}
		cost, err := bcryptCost(encoded)
		if err != nil {
			return false, err
		}
		// caller-supplied cost, bounded like Hash
		if cost < e.minCost || cost > e.maxCost {
			return false, ErrInvalidCost
		}
		return checkBcrypt(encoded, password)
	}

	if len(encoded) != alg.hexLen() || !isHex(encoded) {
		return false, ErrMalformedHash
	}
	want := hexDigest(alg, password)
	return subtle.ConstantTimeCompare([]byte(want), []byte(strings.ToLower(encoded))) == 1, nil
}

func hexDigest(alg Algorithm, password string) string {
	var h hash.Hash
	switch alg {
	case SHA512:
		h = sha512.New()
	case MD5:
		h = md5.New()
	default:
		h = sha256.New()
	}
	h.Write([]byte(password))
	return hex.EncodeToString(h.Sum(nil))
}
