package config

import (
	"fmt"
	"time"
)

const (
	envHTTPAddress     = "HTTP_ADDRESS"
	envGRPCAddress     = "GRPC_ADDRESS"
	envDatabaseURL     = "DATABASE_URL"
	envJWTSecret       = "JWT_SECRET"
	envShutdownTimeout = "SHUTDOWN_TIMEOUT"
	envLogLevel        = "LOG_LEVEL"
	envTraceExporter   = "TRACE_EXPORTER"
	envOTLPEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

// parseEnv overlays values from environment variables. A variable that is set
// but empty is applied as is, so GRPC_ADDRESS="" disables the gRPC endpoint.
func parseEnv(config *Config, lookupEnv func(string) (string, bool)) error {
	fields := map[string]*string{
		envHTTPAddress:   &config.EndpointAddrHTTP,
		envGRPCAddress:   &config.EndpointAddrGRPC,
		envDatabaseURL:   &config.DatabaseDSN,
		envJWTSecret:     &config.SecretKey,
		envLogLevel:      &config.LogLevel,
		envTraceExporter: &config.TraceExporter,
		envOTLPEndpoint:  &config.OTLPEndpoint,
	}
	for name, dst := range fields {
		if v, ok := lookupEnv(name); ok {
			*dst = v
		}
	}

	if v, ok := lookupEnv(envShutdownTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envShutdownTimeout, err)
		}
		config.ShutdownTimeout = d
	}

	return nil
}
