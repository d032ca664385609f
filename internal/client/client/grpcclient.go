package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/dmitrijs2005/userauth/internal/rpcapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(rpcapi.AuthorizationKey, common.BearerPrefix+token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the current token, if any, to every call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a client for endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

// IsLoggedIn reports whether a token is held.
func (s *GRPCClient) IsLoggedIn() bool {
	return s.token() != ""
}

// Logout forgets the token. Tokens are stateless, so nothing is sent to the server.
func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	in, err := rpcapi.ToStruct(req)
	if err != nil {
		return fmt.Errorf("error encoding request: %w", err)
	}

	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, rpcapi.FullMethod(method), in, out); err != nil {
		return s.mapError(err)
	}

	if resp == nil {
		return nil
	}
	if err := rpcapi.FromStruct(out, resp); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, req rpcapi.RegisterRequest) (*rpcapi.User, error) {
	var resp rpcapi.AuthResponse
	if err := s.invoke(ctx, rpcapi.MethodRegister, req, &resp); err != nil {
		return nil, err
	}

	s.setToken(resp.Token)
	return &resp.User, nil
}

func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*rpcapi.User, error) {
	req := rpcapi.LoginRequest{Email: email, Password: string(password)}

	var resp rpcapi.AuthResponse
	if err := s.invoke(ctx, rpcapi.MethodLogin, req, &resp); err != nil {
		return nil, err
	}

	s.setToken(resp.Token)
	return &resp.User, nil
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]rpcapi.User, error) {
	var resp rpcapi.ListResponse
	if err := s.invoke(ctx, rpcapi.MethodListUsers, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

func (s *GRPCClient) GetUser(ctx context.Context, id int64) (*rpcapi.User, error) {
	var resp rpcapi.User
	if err := s.invoke(ctx, rpcapi.MethodGetUser, rpcapi.IDRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *GRPCClient) UpdateUser(ctx context.Context, id int64, name, occupation string) error {
	req := rpcapi.UpdateRequest{ID: id, Name: name, Occupation: occupation}
	return s.invoke(ctx, rpcapi.MethodUpdateUser, req, nil)
}

func (s *GRPCClient) DeleteUser(ctx context.Context, id int64) error {
	return s.invoke(ctx, rpcapi.MethodDeleteUser, rpcapi.IDRequest{ID: id}, nil)
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.AlreadyExists:
		return ErrConflict
	case codes.NotFound:
		return ErrNotFound
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
