package grpc

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// userServiceServer is the handler type checked by grpc.Server.RegisterService.
type userServiceServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteUser(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(userServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(userServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rpcapi.FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv.(userServiceServer), ctx, req.(*structpb.Struct))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: rpcapi.ServiceName,
	HandlerType: (*userServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(rpcapi.MethodRegister, userServiceServer.Register),
		unary(rpcapi.MethodLogin, userServiceServer.Login),
		unary(rpcapi.MethodListUsers, userServiceServer.ListUsers),
		unary(rpcapi.MethodGetUser, userServiceServer.GetUser),
		unary(rpcapi.MethodUpdateUser, userServiceServer.UpdateUser),
		unary(rpcapi.MethodDeleteUser, userServiceServer.DeleteUser),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "userauth.proto",
}
