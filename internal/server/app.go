// Package server wires configuration, storage, the auth core and both front
// ends into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/userauth/internal/cryptox"
	"github.com/dmitrijs2005/userauth/internal/dbx"
	"github.com/dmitrijs2005/userauth/internal/logging"
	"github.com/dmitrijs2005/userauth/internal/server/auth"
	"github.com/dmitrijs2005/userauth/internal/server/config"
	"github.com/dmitrijs2005/userauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/userauth/internal/server/services"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	gs "github.com/dmitrijs2005/userauth/internal/server/grpc"
	hs "github.com/dmitrijs2005/userauth/internal/server/http"
)

const maxDBConns = 10

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	tp         *sdktrace.TracerProvider
	httpServer *hs.HTTPServer
	grpcServer *gs.GRPCServer
}

// NewApp validates c and builds every component. It fails when the signing
// secret is missing, so a misconfigured server never starts.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}

	app, err := newApp(ctx, c, logging.NewDefaultLogger(level), cryptox.DefaultArgon2Params)
	if err != nil {
		return nil, err
	}

	otel.SetTracerProvider(app.tp)
	return app, nil
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, params cryptox.Argon2Params,
	traceOpts ...sdktrace.TracerProviderOption) (*App, error) {
	app := &App{config: c, logger: logger}

	var (
		conn dbx.DBTX
		rm   repomanager.RepositoryManager
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database configured, using in-memory user store")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		db, err := repomanager.OpenDB(ctx, c.DatabaseDSN, maxDBConns)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migration error: %w", err)
		}
		app.db = db
		conn = db
	}

	tp, err := newTracerProvider(ctx, c, traceOpts...)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	app.tp = tp

	tokens, err := auth.NewTokenManager([]byte(c.SecretKey))
	if err != nil {
		app.close(ctx)
		return nil, err
	}

	as, err := services.NewAuthService(conn, rm, cryptox.NewArgon2Hasher(params), tokens, logger, tp)
	if err != nil {
		app.close(ctx)
		return nil, err
	}
	us := services.NewUserService(conn, rm, logger, tp)
	gate := auth.NewGate(tokens)

	app.httpServer = hs.NewHTTPServer(c.EndpointAddrHTTP, logger, as, us, gate, c.ShutdownTimeout)

	if c.EndpointAddrGRPC != "" {
		app.grpcServer, err = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, as, us, gate)
		if err != nil {
			app.close(ctx)
			return nil, err
		}
	}

	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails. It returns the first server error, if any.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	start := func(name string, run func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err.Error())
				once.Do(func() { firstErr = fmt.Errorf("%s server: %w", name, err) })
				cancelFunc()
			}
		}()
	}

	start("http", app.httpServer.Run)
	if app.grpcServer != nil {
		start("grpc", app.grpcServer.Run)
	}

	wg.Wait()
	app.close(context.WithoutCancel(ctx))

	app.logger.Info(ctx, "App stopped")
	return firstErr
}

// close flushes pending spans and releases the database.
func (app *App) close(ctx context.Context) {
	if app.tp != nil {
		shCtx, cancel := context.WithTimeout(ctx, app.config.ShutdownTimeout)
		if err := app.tp.Shutdown(shCtx); err != nil {
			app.logger.Error(ctx, "error shutting down tracer provider", "error", err.Error())
		}
		cancel()
		app.tp = nil
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			app.logger.Error(ctx, "error closing database", "error", err.Error())
		}
		app.db = nil
	}
}
