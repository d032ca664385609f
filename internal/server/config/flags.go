package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/userauth/internal/flagx"
)

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":8080")
//	-g string     gRPC bind address (e.g., ":50051"); empty disables gRPC
//	-d string     PostgreSQL DSN
//	-s string     token signing secret
//	-t duration   shutdown timeout (e.g., "10s")
//	-l string     log level
//	-x string     trace exporter (none, stdout, otlp)
//	-o string     OTLP collector endpoint
//
// Args are filtered first with flagx.FilterArgs so that -c/-config and
// unknown flags do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-s", "-t", "-l", "-x", "-o"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port to run server")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.ShutdownTimeout, "t", config.ShutdownTimeout, "graceful shutdown timeout")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&config.TraceExporter, "x", config.TraceExporter, "trace exporter (none, stdout, otlp)")
	fs.StringVar(&config.OTLPEndpoint, "o", config.OTLPEndpoint, "OTLP collector endpoint")

	return fs.Parse(args)
}
