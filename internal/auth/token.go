package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"rentora/internal/domain"
)

var (
	// ErrTokenInvalid indicates a malformed, tampered or otherwise unusable token.
	ErrTokenInvalid = errors.New("token invalid")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims are the identity claims carried by a session token.
type Claims struct {
	UserID string
	Name   string
	Email  string
	Role   domain.Role
}

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies stateless HS256 session tokens. Validity is
// determined entirely by signature and embedded expiry; nothing is stored
// server-side.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a fresh token for the given claims, expiring after the
// configured TTL. Re-issuing on each request gives sliding expiration.
func (i *Issuer) Issue(claims Claims) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Name:  claims.Name,
		Email: claims.Email,
		Role:  string(claims.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify parses and validates a token, returning its identity claims.
func (i *Issuer) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(t *jwt.Token) (any, error) {
		// prevent alg confusion
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*sessionClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{
		UserID: claims.Subject,
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   domain.Role(claims.Role),
	}, nil
}
