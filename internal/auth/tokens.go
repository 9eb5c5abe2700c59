package auth

import (
	"fmt"
	"time"

	"mealplanner/internal/shared"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionTTL is the fixed lifetime of a session token.
const SessionTTL = 7 * 24 * time.Hour

// Claims are the claims carried by a session token.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Subject is the user a session token is issued for.
type Subject struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Session is a signed token and its expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	key      []byte
	issuer   string
	audience string
	now      func() time.Time
}

// NewTokens creates a token issuer bound to a signing key, issuer and audience.
func NewTokens(key, issuer, audience string) *Tokens {
	return &Tokens{
		key:      []byte(key),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
}

// Issue signs a session token for s expiring SessionTTL from now.
func (t *Tokens) Issue(s Subject) (Session, error) {
	issuedAt := t.now().UTC().Truncate(time.Second)
	expiresAt := issuedAt.Add(SessionTTL)

	claims := Claims{
		Email: s.Email,
		Name:  s.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID.String(),
			ID:        uuid.NewString(),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return Session{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify checks signature, algorithm, issuer, audience and expiry with no
// clock-skew leeway and returns the claims.
func (t *Tokens) Verify(token string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(t.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.key, nil
	})
	if err != nil {
		return nil, shared.Unauthorized("invalid session token", err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, shared.Unauthorized("invalid session subject", err)
	}
	return claims, nil
}

// UserID returns the subject of c as a user id.
func (c *Claims) UserID() uuid.UUID {
	id, _ := uuid.Parse(c.Subject)
	return id
}
