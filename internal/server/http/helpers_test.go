package http

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func jwtTime(t time.Time) *jwt.NumericDate {
	return jwt.NewNumericDate(t)
}

func signHS256(t *testing.T, c *auth.Claims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}
