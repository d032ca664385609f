// Package client talks to the user service over gRPC.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract (see the Client interface) covering
//     Register, Login, Logout and the user record operations.
//  2. A concrete gRPC implementation (see GRPCClient) that manages a
//     connection, remembers the token from the last successful register or
//     login, and attaches it as a bearer credential via an interceptor.
//
// # Error Handling
//
// gRPC status codes are mapped to sentinel errors that callers can match with
// errors.Is: ErrUnauthorized, ErrConflict, ErrNotFound, ErrInvalidArgument and
// ErrUnavailable.
//
// GRPCClient is safe for concurrent use. All operations accept
// context.Context and honor cancellation and deadlines.
package client
