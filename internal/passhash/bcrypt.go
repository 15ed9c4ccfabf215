package passhash

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength is the longest input bcrypt accepts
const MaxPasswordLength = 72

var (
	ErrEmptyPassword   = errors.New("password is empty")
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", MaxPasswordLength)
	ErrInvalidCost     = errors.New("invalid bcrypt cost")
)

// knownPrefixes are the bcrypt identifiers a hash may start with
var knownPrefixes = []string{"$2a$", "$2b$", "$2y$"}

// Hasher hashes passwords and verifies them against stored hashes
type Hasher interface {
	Hash(password []byte) (string, error)
	Verify(hash string, password []byte) bool
}

// Bcrypt implements Hasher using bcrypt
type Bcrypt struct {
	cost int
}

// New returns a bcrypt hasher. A zero cost selects bcrypt.DefaultCost.
func New(cost int) (*Bcrypt, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &Bcrypt{cost: cost}, nil
}

// Cost returns the configured work factor
func (b *Bcrypt) Cost() int {
	return b.cost
}

// Hash salts and hashes password. Every call draws a fresh salt.
func (b *Bcrypt) Hash(password []byte) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	hashed, err := bcrypt.GenerateFromPassword(password, b.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches hash. The digest comparison runs in
// constant time; a malformed hash never matches.
func (b *Bcrypt) Verify(hash string, password []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}

// Cost returns the work factor embedded in hash
func Cost(hash string) (int, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return 0, fmt.Errorf("failed to read cost from hash: %w", err)
	}
	return cost, nil
}

// HasKnownPrefix reports whether hash starts with a bcrypt identifier
func HasKnownPrefix(hash string) bool {
	for _, p := range knownPrefixes {
		if strings.HasPrefix(hash, p) {
			return true
		}
	}
	return false
}
