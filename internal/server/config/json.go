package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/userauth/internal/flagx"
)

// Duration accepts either a Go duration string ("5s") or integer
// nanoseconds in JSON.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return errors.New("invalid duration")
	}
	return nil
}

// JsonConfig is the on-disk shape of the config file.
type JsonConfig struct {
	EndpointAddrHTTP string   `json:"endpoint_addr_http"`
	EndpointAddrGRPC string   `json:"endpoint_addr_grpc"`
	DatabaseDSN      string   `json:"database_dsn"`
	SecretKey        string   `json:"secret_key"`
	ShutdownTimeout  Duration `json:"shutdown_timeout"`
	LogLevel         string   `json:"log_level"`
	TraceExporter    string   `json:"trace_exporter"`
	OTLPEndpoint     string   `json:"otlp_endpoint"`
}

// parseJson overlays values from the file named by -c/-config, if any.
// Fields absent from the file keep their current values.
func parseJson(config *Config, args []string) error {

	jsonConfigFile := flagx.ConfigFileFlag(args)

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", jsonConfigFile, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.TraceExporter, c.TraceExporter)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}

	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
