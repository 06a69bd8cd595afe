// Package credential provides one-way password hashing and verification
// backed by bcrypt. Each hash embeds a random per-hash salt, so hashing the
// same plaintext twice produces different outputs.
package credential

import "golang.org/x/crypto/bcrypt"

// DefaultCost is the work factor used when none is configured.
const DefaultCost = 12

// Codec hashes and verifies passwords at a fixed cost factor. The cost is set
// once at construction and never changes for the life of the process.
type Codec struct {
	cost int
}

// NewCodec returns a Codec with the given bcrypt cost. Costs outside bcrypt's
// supported range fall back to DefaultCost.
func NewCodec(cost int) *Codec {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Codec{cost: cost}
}

// Hash returns the bcrypt hash of plain.
func (c *Codec) Hash(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), c.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify reports whether plain matches hash. A corrupt or malformed hash is a
// verification failure, not an error: callers always get a plain yes/no.
// bcrypt's comparison is constant-time with respect to the hash contents.
func (c *Codec) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
