// Package services contains server-side business logic. AuthService runs the
// register and login flows; UserService exposes the user record operations.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/dmitrijs2005/userauth/internal/server/services"

// PasswordHasher hashes new passwords and verifies candidates against stored hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TokenIssuer mints access tokens.
type TokenIssuer interface {
	Issue(userID int64, email string) (string, error)
}

// AuthResult is returned by a successful register or login.
type AuthResult struct {
	Token string            `json:"token"`
	User  models.UserPublic `json:"user"`
}

// AuthService sequences hasher, user store and token issuer.
//
// Login answers "unknown email" and "wrong password" with the same
// common.ErrorUnauthorized. On the unknown-email path it still runs one
// verification against a reference hash, so both paths cost about the same.
type AuthService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	hasher      PasswordHasher
	tokens      TokenIssuer
	logger      logging.Logger
	tracer      trace.Tracer
	dummyHash   string
}

// NewAuthService builds the service and precomputes the reference hash used
// on the unknown-email login path.
func NewAuthService(db dbx.DBTX, m repomanager.RepositoryManager, hasher PasswordHasher, tokens TokenIssuer,
	logger logging.Logger, tp trace.TracerProvider) (*AuthService, error) {

	seed, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("error generating reference password: %w", err)
	}

	dummy, err := hasher.Hash(seed)
	if err != nil {
		return nil, fmt.Errorf("error computing reference hash: %w", err)
	}

	return &AuthService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "auth_service"),
		tracer:      tp.Tracer(tracerName),
		dummyHash:   dummy,
	}, nil
}

// Register hashes the password, stores the user and returns a token with the
// public profile. A taken email yields common.ErrorConflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Register")
	defer func() { endSpan(span, err) }()

	in.Email = common.NormalizeEmail(in.Email)
	if err := in.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.Create(ctx, &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Occupation:   in.Occupation,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	s.logger.Info(ctx, "user registered", "user_id", user.ID)

	return s.issue(user)
}

// Login checks the credentials and returns a token with the public profile.
// Unknown email and wrong password both yield common.ErrorUnauthorized.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (res *AuthResult, err error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.Login")
	defer func() { endSpan(span, err) }()

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, common.NormalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_, _ = s.hasher.Verify(in.Password, s.dummyHash)
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("error verifying password of user %d: %w", user.ID, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	span.SetAttributes(attribute.Int64("user.id", user.ID))
	s.logger.Debug(ctx, "user logged in", "user_id", user.ID)

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}

// endSpan records expected outcomes (unauthorized, conflict, validation) as
// plain events and everything else as span errors.
func endSpan(span trace.Span, err error) {
	switch {
	case err == nil:
		span.SetStatus(codes.Ok, "")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrorConflict),
		errors.Is(err, common.ErrorValidation):
		span.AddEvent("rejected", trace.WithAttributes(attribute.String("reason", err.Error())))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, "internal error")
	}
	span.End()
}
