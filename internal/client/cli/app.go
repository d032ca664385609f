package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/userauth/internal/client/client"
	"github.com/dmitrijs2005/userauth/internal/client/config"
)

type App struct {
	config    *config.Config
	client    client.Client
	reader    *bufio.Reader
	out       io.Writer
	userEmail string
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, client: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run blocks in the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.client.Close(); err != nil {
			a.printf("error closing connection: %v\n", err)
		}
	}()

	a.printf("Welcome to userauth CLI (type 'help' for commands)\n")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.userEmail != ""
}

func (a *App) getStatus() string {
	if a.userEmail == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userEmail)
}

// requestContext bounds a single API call by the configured timeout.
func (a *App) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) fail(err error) error {
	a.printf("Error: %v\n", err)
	return err
}
