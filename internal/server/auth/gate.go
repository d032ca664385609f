package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userauth/internal/common"
)

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadScheme     = errors.New("authorization scheme is not Bearer")
	errEmptyToken    = errors.New("empty bearer token")
)

// Verifier validates a raw token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// Gate authorizes requests to protected operations. It is transport
// agnostic: the HTTP and gRPC front ends both adapt it.
//
// Every rejection wraps common.ErrorUnauthorized together with the concrete
// cause, so transports can answer with a single 401 while logs keep the
// reason.
type Gate struct {
	verifier Verifier
}

// NewGate returns a gate backed by v.
func NewGate(v Verifier) *Gate {
	return &Gate{verifier: v}
}

// Authorize checks the raw Authorization value and, on success, returns ctx
// enriched with the verified claims.
func (g *Gate) Authorize(ctx context.Context, header string) (context.Context, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	claims, err := g.verifier.Verify(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	return WithClaims(ctx, claims), nil
}

// BearerToken extracts the token from an Authorization value. The scheme
// must be exactly "Bearer " (case-sensitive, one space).
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return "", errBadScheme
	}

	token := header[len(common.BearerPrefix):]
	if token == "" {
		return "", errEmptyToken
	}

	return token, nil
}
