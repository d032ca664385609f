// Package auth issues and verifies signed access tokens and gates protected
// operations on them.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the lifetime of every issued access token.
const TokenTTL = 24 * time.Hour

// Claims is the identity payload carried by an access token. The standard
// claims hold the subject (decimal user id), iat and exp.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"uid"`
	Email  string `json:"email"`
}

// IssuedAtTime returns the iat claim, or the zero time when absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns the exp claim, or the zero time when absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// TokenManager signs and verifies HS256 tokens with a server-held secret.
// The secret is fixed at construction and never changes.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager returns a manager signing with secret. An empty secret is
// a configuration error and must stop the process at startup.
func NewTokenManager(secret []byte) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, common.ErrEmptySecret
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenManager{secret: key, ttl: TokenTTL, now: time.Now}, nil
}

// Issue mints a token for the given user, valid for TokenTTL from now.
func (m *TokenManager) Issue(userID int64, email string) (string, error) {
	now := m.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		UserID: userID,
		Email:  email,
	})

	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// Verify checks the signature and expiry of tokenString and returns its claims.
// Expired tokens fail with common.ErrTokenExpired; every other defect
// (bad signature, wrong algorithm, malformed structure, missing claims)
// fails with common.ErrInvalidToken.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", common.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return nil, fmt.Errorf("%w: subject does not match uid", common.ErrInvalidToken)
	}

	return claims, nil
}
