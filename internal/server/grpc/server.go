// Package grpc is the gRPC front end of the user service. Only UpdateUser and
// DeleteUser pass through the bearer-token gate.
package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"google.golang.org/grpc"
)

type authService interface {
	Register(ctx context.Context, in services.RegisterInput) (*services.AuthResult, error)
	Login(ctx context.Context, in services.LoginInput) (*services.AuthResult, error)
}

type userService interface {
	List(ctx context.Context) ([]models.UserPublic, error)
	Get(ctx context.Context, id int64) (*models.UserPublic, error)
	Update(ctx context.Context, id int64, info models.UserInfo) error
	Delete(ctx context.Context, id int64) error
}

type authorizer interface {
	Authorize(ctx context.Context, header string) (context.Context, error)
}

type GRPCServer struct {
	address string
	auth    authService
	users   userService
	gate    authorizer
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as authService, us userService, gate authorizer) (*GRPCServer, error) {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		users:   us,
		gate:    gate,
	}, nil
}

// newServer creates the gRPC server with the gate interceptor and registers
// the service on it.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv.RegisterService(&serviceDesc, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
