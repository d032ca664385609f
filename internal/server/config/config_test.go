package config

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/userauth/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	want := Config{
		EndpointAddrHTTP: ":8080",
		EndpointAddrGRPC: ":50051",
		ShutdownTimeout:  5 * time.Second,
		LogLevel:         "info",
		TraceExporter:    TraceExporterNone,
		OTLPEndpoint:     "localhost:4317",
	}
	assert.Empty(t, cmp.Diff(want, c))
	assert.Empty(t, c.SecretKey)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		var c Config
		c.LoadDefaults()
		c.SecretKey = "k"
		return c
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"ok", func(*Config) {}, false},
		{"grpc disabled is fine", func(c *Config) { c.EndpointAddrGRPC = "" }, false},
		{"empty secret", func(c *Config) { c.SecretKey = "" }, true},
		{"empty http address", func(c *Config) { c.EndpointAddrHTTP = "" }, true},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"stdout exporter", func(c *Config) { c.TraceExporter = TraceExporterStdout }, false},
		{"otlp exporter", func(c *Config) { c.TraceExporter = TraceExporterOTLP }, false},
		{"otlp without endpoint", func(c *Config) { c.TraceExporter = TraceExporterOTLP; c.OTLPEndpoint = "" }, true},
		{"unknown exporter", func(c *Config) { c.TraceExporter = "jaeger" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	c := base()
	c.SecretKey = ""
	assert.ErrorIs(t, c.Validate(), common.ErrEmptySecret)
}

func TestSlogLevel(t *testing.T) {
	c := Config{LogLevel: "debug"}
	l, err := c.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)
}

func TestLoad_RefusesWithoutSecret(t *testing.T) {
	_, err := load(nil, env(nil))
	assert.ErrorIs(t, err, common.ErrEmptySecret)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http": "json:1",
		"endpoint_addr_grpc": "json:2",
		"database_dsn":       "json-dsn",
		"secret_key":         "json-secret",
		"shutdown_timeout":   "7s",
		"log_level":          "warn",
		"trace_exporter":     "stdout",
	})

	tests := []struct {
		name string
		args []string
		env  map[string]string
		want Config
	}{
		{
			name: "json over defaults",
			args: []string{"-c", path},
			want: Config{
				EndpointAddrHTTP: "json:1", EndpointAddrGRPC: "json:2", DatabaseDSN: "json-dsn",
				SecretKey: "json-secret", ShutdownTimeout: 7 * time.Second, LogLevel: "warn",
				TraceExporter: TraceExporterStdout, OTLPEndpoint: "localhost:4317",
			},
		},
		{
			name: "env over json",
			args: []string{"-config", path},
			env:  map[string]string{"HTTP_ADDRESS": "env:1", "JWT_SECRET": "env-secret", "SHUTDOWN_TIMEOUT": "9s"},
			want: Config{
				EndpointAddrHTTP: "env:1", EndpointAddrGRPC: "json:2", DatabaseDSN: "json-dsn",
				SecretKey: "env-secret", ShutdownTimeout: 9 * time.Second, LogLevel: "warn",
				TraceExporter: TraceExporterStdout, OTLPEndpoint: "localhost:4317",
			},
		},
		{
			name: "flags over env",
			args: []string{"-c", path, "-a", "flag:1", "-s", "flag-secret", "-d", "flag-dsn", "-t", "3s", "-l", "debug"},
			env:  map[string]string{"HTTP_ADDRESS": "env:1", "JWT_SECRET": "env-secret", "DATABASE_URL": "env-dsn"},
			want: Config{
				EndpointAddrHTTP: "flag:1", EndpointAddrGRPC: "json:2", DatabaseDSN: "flag-dsn",
				SecretKey: "flag-secret", ShutdownTimeout: 3 * time.Second, LogLevel: "debug",
				TraceExporter: TraceExporterStdout, OTLPEndpoint: "localhost:4317",
			},
		},
		{
			name: "empty GRPC_ADDRESS disables grpc",
			args: []string{"-s", "k"},
			env:  map[string]string{"GRPC_ADDRESS": ""},
			want: Config{
				EndpointAddrHTTP: ":8080", EndpointAddrGRPC: "", SecretKey: "k",
				ShutdownTimeout: 5 * time.Second, LogLevel: "info",
				TraceExporter: TraceExporterNone, OTLPEndpoint: "localhost:4317",
			},
		},
		{
			name: "tracing from env and flags",
			args: []string{"-s", "k", "-x", "otlp"},
			env:  map[string]string{"TRACE_EXPORTER": "stdout", "OTEL_EXPORTER_OTLP_ENDPOINT": "collector:4317"},
			want: Config{
				EndpointAddrHTTP: ":8080", EndpointAddrGRPC: ":50051", SecretKey: "k",
				ShutdownTimeout: 5 * time.Second, LogLevel: "info",
				TraceExporter: TraceExporterOTLP, OTLPEndpoint: "collector:4317",
			},
		},
		{
			name: "unknown flags are ignored",
			args: []string{"-z", "1", "-s", "k", "-g", "g:1"},
			want: Config{
				EndpointAddrHTTP: ":8080", EndpointAddrGRPC: "g:1", SecretKey: "k",
				ShutdownTimeout: 5 * time.Second, LogLevel: "info",
				TraceExporter: TraceExporterNone, OTLPEndpoint: "localhost:4317",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := load(tt.args, env(tt.env))
			require.NoError(t, err)
			assert.Empty(t, cmp.Diff(tt.want, *got))
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing file", []string{"-c", filepath.Join(dir, "missing.json"), "-s", "k"}, nil},
		{"invalid json", []string{"-c", bad, "-s", "k"}, nil},
		{"bad env duration", []string{"-s", "k"}, map[string]string{"SHUTDOWN_TIMEOUT": "soon"}},
		{"bad flag duration", []string{"-s", "k", "-t", "soon"}, nil},
		{"bad trace exporter", []string{"-s", "k", "-x", "zipkin"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(tt.args, env(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{`"1m"`, time.Minute, false},
		{`1000000000`, time.Second, false},
		{`"nope"`, 0, true},
		{`true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestParseJson_PartialFileKeepsValues(t *testing.T) {
	path := writeTempJSON(t, map[string]any{"database_dsn": "only-dsn"})

	c := &Config{EndpointAddrHTTP: "keep:1", SecretKey: "keep"}
	require.NoError(t, parseJson(c, []string{"-c", path}))

	assert.Equal(t, "keep:1", c.EndpointAddrHTTP)
	assert.Equal(t, "keep", c.SecretKey)
	assert.Equal(t, "only-dsn", c.DatabaseDSN)
}
