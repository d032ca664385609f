package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/rpcapi"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in services.RegisterInput
	if err := rpcapi.FromStruct(req, &in); err != nil {
		return nil, s.statusError(ctx, common.ErrorValidation)
	}

	res, err := s.auth.Register(ctx, in)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", res.User.ID)
	return s.reply(ctx, res)
}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in services.LoginInput
	if err := rpcapi.FromStruct(req, &in); err != nil {
		return nil, s.statusError(ctx, common.ErrorValidation)
	}

	res, err := s.auth.Login(ctx, in)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	return s.reply(ctx, res)
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	res, err := s.users.List(ctx)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return s.reply(ctx, listResponse(res))
}

func (s *GRPCServer) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpcapi.IDRequest
	if err := rpcapi.FromStruct(req, &in); err != nil || in.ID <= 0 {
		return nil, s.statusError(ctx, common.ErrorValidation)
	}

	res, err := s.users.Get(ctx, in.ID)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return s.reply(ctx, res)
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpcapi.UpdateRequest
	if err := rpcapi.FromStruct(req, &in); err != nil || in.ID <= 0 {
		return nil, s.statusError(ctx, common.ErrorValidation)
	}

	err := s.users.Update(ctx, in.ID, models.UserInfo{Name: in.Name, Occupation: in.Occupation})
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return s.reply(ctx, rpcapi.MessageResponse{Message: "user updated"})
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in rpcapi.IDRequest
	if err := rpcapi.FromStruct(req, &in); err != nil || in.ID <= 0 {
		return nil, s.statusError(ctx, common.ErrorValidation)
	}

	if err := s.users.Delete(ctx, in.ID); err != nil {
		return nil, s.statusError(ctx, err)
	}
	return s.reply(ctx, rpcapi.MessageResponse{Message: "user deleted"})
}

func (s *GRPCServer) reply(ctx context.Context, v any) (*structpb.Struct, error) {
	st, err := rpcapi.ToStruct(v)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return st, nil
}

// statusError maps a service error to a gRPC status. Internal causes are
// logged and never sent to the client.
func (s *GRPCServer) statusError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "email already registered")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		s.logger.Error(ctx, err.Error())
		return status.Error(codes.Internal, "internal error")
	}
}

func listResponse(users []models.UserPublic) rpcapi.ListResponse {
	res := rpcapi.ListResponse{Users: make([]rpcapi.User, 0, len(users))}
	for _, u := range users {
		res.Users = append(res.Users, rpcapi.User(u))
	}
	return res
}
