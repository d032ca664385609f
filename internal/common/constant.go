package common

const (
	// AuthorizationHeaderName is the HTTP header (and gRPC metadata key, lower-cased)
	// carrying the bearer token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix is the exact, case-sensitive scheme prefix required in front of a token.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName is echoed on every HTTP response.
	RequestIDHeaderName = "X-Request-ID"
)
