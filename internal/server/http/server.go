// Package http is the fiber-based HTTP front end: routing, the bearer-token
// gate adapter and the mapping of service errors to status codes.
package http

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/models"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"github.com/gofiber/fiber/v2"
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

// authorizer is satisfied by *auth.Gate.
type authorizer interface {
	Authorize(ctx context.Context, header string) (context.Context, error)
}

type HTTPServer struct {
	address         string
	auth            authService
	users           userService
	gate            authorizer
	logger          logging.Logger
	shutdownTimeout time.Duration
	app             *fiber.App
}

func NewHTTPServer(address string, l logging.Logger, as authService, us userService, gate authorizer,
	shutdownTimeout time.Duration) *HTTPServer {

	s := &HTTPServer{
		address:         address,
		auth:            as,
		users:           us,
		gate:            gate,
		logger:          l.With("module", "http_server"),
		shutdownTimeout: shutdownTimeout,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		// Parsed bodies outlive the request in the in-memory store.
		Immutable: true,
	})
	s.routes()

	return s
}

func (s *HTTPServer) routes() {
	s.app.Use(s.requestLogger)

	s.app.Get("/health", s.health)

	s.app.Post("/register", s.register)
	s.app.Post("/login", s.login)

	s.app.Get("/users", s.listUsers)
	s.app.Get("/user/:id", s.getUser)
	s.app.Put("/user/:id", s.requireAuth, s.updateUser)
	s.app.Delete("/user/:id", s.requireAuth, s.deleteUser)
}

// App exposes the underlying fiber application.
func (s *HTTPServer) App() *fiber.App {
	return s.app
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
		errCh <- s.app.Listener(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.app.ShutdownWithContext(shCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	_ = ln.Close()

	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
