// Package config handles configuration for the server component: defaults,
// then an optional JSON file, then environment variables, then command-line
// flags. Each layer only overrides the values it actually sets.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
)

// Trace exporters accepted in Config.TraceExporter.
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterOTLP   = "otlp"
)

// Config holds runtime settings for the server.
//
// Fields:
//   - EndpointAddrHTTP: bind address of the HTTP API.
//   - EndpointAddrGRPC: bind address of the gRPC API; empty disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx); empty selects the in-memory store.
//   - SecretKey: HMAC secret for signing tokens (HS256). Required, no default.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - LogLevel: debug, info, warn or error.
//   - TraceExporter: none, stdout or otlp.
//   - OTLPEndpoint: host:port of the OTLP/gRPC collector, used with otlp.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	DatabaseDSN      string
	SecretKey        string
	ShutdownTimeout  time.Duration
	LogLevel         string
	TraceExporter    string
	OTLPEndpoint     string
}

// LoadDefaults populates Config with development defaults. There is
// deliberately no default SecretKey.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":8080"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDSN = ""
	c.ShutdownTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.TraceExporter = TraceExporterNone
	c.OTLPEndpoint = "localhost:4317"
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return common.ErrEmptySecret
	}
	if c.EndpointAddrHTTP == "" {
		return errors.New("http address must be set")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	switch c.TraceExporter {
	case TraceExporterNone, TraceExporterStdout:
	case TraceExporterOTLP:
		if c.OTLPEndpoint == "" {
			return errors.New("otlp endpoint must be set for the otlp trace exporter")
		}
	default:
		return fmt.Errorf("invalid trace exporter %q", c.TraceExporter)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return l, nil
}

// LoadConfig builds a validated Config from the process arguments and
// environment.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

func load(args []string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, lookupEnv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
