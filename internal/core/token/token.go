// Package token issues and validates stateless HS256 bearer tokens. The
// server keeps no session state: a token is valid iff its signature matches
// the configured secret and it has not expired.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 15 * time.Minute

var errBadClaims = errors.New("token: missing or malformed user_id claim")

// Service signs and validates bearer tokens with a process-wide secret loaded
// once at startup.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService returns a Service signing with secret and issuing tokens that
// expire after ttl. A non-positive ttl falls back to DefaultTTL.
func NewService(secret string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{secret: []byte(secret), ttl: ttl}
}

// Issue produces a signed token for the given user. The subject claim carries
// the user's email; user_id carries the numeric identifier the authentication
// filter resolves the user from.
func (s *Service) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"sub":     email,
		"iat":     now.Unix(),
		"exp":     now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate reports whether tok is well-formed, signed with the configured
// secret using HS256, and unexpired. It never returns an error; every failure
// mode is simply false.
func (s *Service) Validate(tok string) bool {
	parsed, err := s.parse(tok)
	return err == nil && parsed.Valid
}

// SubjectUserID extracts the user_id claim. Callers must only invoke it on a
// token that already passed Validate.
func (s *Service) SubjectUserID(tok string) (int64, error) {
	parsed, err := s.parse(tok)
	if err != nil {
		return 0, err
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errBadClaims
	}
	// JSON numbers decode as float64.
	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, errBadClaims
	}
	return int64(id), nil
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) parse(tok string) (*jwt.Token, error) {
	return jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
}
