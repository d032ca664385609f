package client

import (
	"context"

	"github.com/dmitrijs2005/userauth/internal/rpcapi"
)

type Client interface {
	Close() error
	Register(ctx context.Context, req rpcapi.RegisterRequest) (*rpcapi.User, error)
	Login(ctx context.Context, email string, password []byte) (*rpcapi.User, error)
	Logout()
	ListUsers(ctx context.Context) ([]rpcapi.User, error)
	GetUser(ctx context.Context, id int64) (*rpcapi.User, error)
	UpdateUser(ctx context.Context, id int64, name, occupation string) error
	DeleteUser(ctx context.Context, id int64) error
}
