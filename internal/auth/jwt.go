// Package auth issues and verifies bearer tokens and carries the
// authenticated identity through request contexts.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/oggyb/sportly/internal/config"
	"github.com/oggyb/sportly/internal/db"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the JWT payload of an access token.
type Claims struct {
	UserID string  `json:"user_id"`
	Role   db.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and parses HS256 access tokens.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewManager builds a token manager from the Auth config section.
func NewManager(cfg *config.Config) *Manager {
	ttl := cfg.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{
		secret: []byte(cfg.Auth.JWTSecret),
		issuer: cfg.Auth.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the manager's clock. Used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Configured reports whether a signing secret is set.
func (m *Manager) Configured() bool { return len(m.secret) > 0 }

// Issue signs an access token for the user.
func (m *Manager) Issue(userID string, role db.Role) (string, time.Time, error) {
	if !m.Configured() {
		return "", time.Time{}, fmt.Errorf("jwt secret is empty")
	}
	if strings.TrimSpace(userID) == "" {
		return "", time.Time{}, fmt.Errorf("invalid access token payload")
	}

	now := m.now().UTC()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies raw and returns its claims.
// Any signature, algorithm, expiry or payload problem yields ErrInvalidToken.
func (m *Manager) Parse(raw string) (*Claims, error) {
	if !m.Configured() || strings.TrimSpace(raw) == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.UserID) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
