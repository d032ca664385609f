package grpc

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// protectedMethods lists the calls that require a bearer token.
var protectedMethods = map[string]bool{
	rpcapi.FullMethod(rpcapi.MethodUpdateUser): true,
	rpcapi.FullMethod(rpcapi.MethodDeleteUser): true,
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if protectedMethods[info.FullMethod] {

		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			values := md.Get(rpcapi.AuthorizationKey)
			if len(values) > 0 {
				header = values[0]
			}
		}

		authCtx, err := s.gate.Authorize(ctx, header)
		if err != nil {
			s.logger.Warn(ctx, "request rejected", "method", info.FullMethod, "reason", err.Error())
			return nil, status.Error(codes.Unauthenticated, "unauthorized")
		}

		ctx = authCtx
	}

	return handler(ctx, req)
}
