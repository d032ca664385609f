// Package config loads runtime configuration for the CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: USERAUTH_SERVER, USERAUTH_TIMEOUT.
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     address:port of the gRPC endpoint
//	-t duration   per-request timeout (e.g. "5s")
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config
