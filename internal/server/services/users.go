package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// UserService exposes read and write operations on stored users.
// Any authenticated caller may update or delete any record; the acting user
// is only logged.
type UserService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	tracer      trace.Tracer
}

func NewUserService(db dbx.DBTX, m repomanager.RepositoryManager, logger logging.Logger, tp trace.TracerProvider) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "user_service"),
		tracer:      tp.Tracer(tracerName),
	}
}

func (s *UserService) List(ctx context.Context) (res []models.UserPublic, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.List")
	defer func() { endSpan(span, err) }()

	items, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}

	res = make([]models.UserPublic, 0, len(items))
	for _, u := range items {
		res = append(res, u.Public())
	}
	return res, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (res *models.UserPublic, err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Get", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer func() { endSpan(span, err) }()

	u, err := s.repomanager.Users(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, passNotFound(err, "error fetching user")
	}

	pub := u.Public()
	return &pub, nil
}

// Update replaces name and occupation of user id.
func (s *UserService) Update(ctx context.Context, id int64, info models.UserInfo) (err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Update", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer func() { endSpan(span, err) }()

	if err := validateUserInfo(info); err != nil {
		return err
	}

	if err := s.repomanager.Users(s.db).Update(ctx, id, info); err != nil {
		return passNotFound(err, "error updating user")
	}

	s.logger.Info(ctx, "user updated", "user_id", id, "actor_id", actor(ctx))
	return nil
}

func (s *UserService) Delete(ctx context.Context, id int64) (err error) {
	ctx, span := s.tracer.Start(ctx, "UserService.Delete", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer func() { endSpan(span, err) }()

	if err := s.repomanager.Users(s.db).Delete(ctx, id); err != nil {
		return passNotFound(err, "error deleting user")
	}

	s.logger.Info(ctx, "user deleted", "user_id", id, "actor_id", actor(ctx))
	return nil
}

func passNotFound(err error, msg string) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// actor returns the authenticated user id, or 0 when the call is unauthenticated.
func actor(ctx context.Context) int64 {
	id, _ := auth.UserIDFromContext(ctx)
	return id
}
