package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/userauth/internal/flagx"
)

// JsonConfig is the on-disk shape of the config file. RequestTimeout is a
// Go duration string.
type JsonConfig struct {
	ServerEndpointAddr string `json:"server_endpoint_addr"`
	RequestTimeout     string `json:"request_timeout"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("error parsing config file %s: %w", jsonConfigFile, err)
	}

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.RequestTimeout != "" {
		d, err := time.ParseDuration(jc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("invalid request_timeout: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

func parseEnv(cfg *Config, lookupEnv func(string) (string, bool)) error {
	if v, ok := lookupEnv("USERAUTH_SERVER"); ok && v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v, ok := lookupEnv("USERAUTH_TIMEOUT"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid USERAUTH_TIMEOUT: %w", err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}
