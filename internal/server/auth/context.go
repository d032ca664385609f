package auth

import "context"

type ctxKey string

const claimsKey ctxKey = "claims"

// WithClaims returns a copy of ctx carrying verified claims. Only the gate
// should call it.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// ClaimsFromContext returns the claims attached by the gate, if any.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok && c != nil
}

// UserIDFromContext returns the authenticated caller's id.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return 0, false
	}
	return c.UserID, true
}
