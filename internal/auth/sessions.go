// Package auth issues and verifies session tokens and hashes passwords.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"campusconnect/internal/domain"
	"campusconnect/internal/kv"
)

const revokedPrefix = "session:revoked:"

// Claims is the payload carried by a session token.
type Claims struct {
	Role     domain.AccountRole `json:"role"`
	Username string             `json:"username,omitempty"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the session belongs to an administrator.
func (c *Claims) IsAdmin() bool { return c != nil && c.Role == domain.RoleAdmin }

// SessionConfig holds token signing parameters.
type SessionConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Sessions signs HS256 tokens and checks them against a revocation list.
type Sessions struct {
	cfg     SessionConfig
	revoked kv.Store
	now     func() time.Time
}

func NewSessions(cfg SessionConfig, revoked kv.Store) *Sessions {
	if cfg.Issuer == "" {
		cfg.Issuer = "campusconnect"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Sessions{cfg: cfg, revoked: revoked, now: time.Now}
}

// TTL is the lifetime of newly issued tokens.
func (s *Sessions) TTL() time.Duration { return s.cfg.TTL }

// Issue signs a token for subject.
func (s *Sessions) Issue(subject string, role domain.AccountRole, username string) (string, *Claims, error) {
	now := s.now()
	claims := &Claims{
		Role:     role,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}
	return token, claims, nil
}

// Verify parses token and rejects bad signatures, foreign algorithms, expired
// or revoked sessions with domain.ErrNotAuthorized.
func (s *Sessions) Verify(ctx context.Context, token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrNotAuthorized
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNotAuthorized, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: incomplete claims", domain.ErrNotAuthorized)
	}

	if s.revoked != nil {
		revoked, err := s.revoked.Exists(ctx, revokedPrefix+claims.ID)
		if err != nil {
			return nil, &domain.StorageError{Op: "session_revocation", Err: err}
		}
		if revoked {
			return nil, fmt.Errorf("%w: session revoked", domain.ErrNotAuthorized)
		}
	}
	return claims, nil
}

// Revoke blacklists the session for the rest of its lifetime.
func (s *Sessions) Revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ID == "" {
		return errors.New("revoke: session id required")
	}
	if s.revoked == nil {
		return nil
	}
	ttl := time.Second
	if claims.ExpiresAt != nil {
		if left := claims.ExpiresAt.Sub(s.now()); left > ttl {
			ttl = left
		}
	}
	if err := s.revoked.Set(ctx, revokedPrefix+claims.ID, "1", ttl); err != nil {
		return &domain.StorageError{Op: "session_revoke", Err: err}
	}
	return nil
}
