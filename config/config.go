// Package config loads process level configuration for the adapter from the
// environment, with an optional config file.
package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by the adapter.
const EnvPrefix = "PGFDW"

const (
	TelemetryNone = "none"
	TelemetryOTLP = "otlp"
)

const (
	keyConfigFile   = "config"
	keyLogLevel     = "log_level"
	keyLogJSON      = "log_json"
	keyTelemetry    = "telemetry"
	keyOTLPEndpoint = "otlp_endpoint"
	keyServiceName  = "service_name"
)

type Config struct {
	LogLevel     string
	LogJSON      bool
	Telemetry    string
	OTLPEndpoint string
	ServiceName  string
}

// Load reads the configuration. Every key can be set with an environment
// variable, e.g. PGFDW_LOG_LEVEL; PGFDW_CONFIG names an optional config file.
func Load() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyLogLevel, "warn")
	v.SetDefault(keyLogJSON, false)
	v.SetDefault(keyTelemetry, TelemetryNone)
	v.SetDefault(keyOTLPEndpoint, "localhost:4317")
	v.SetDefault(keyServiceName, "pg_fdw")

	if configFile := v.GetString(keyConfigFile); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
		log.Printf("[INFO] loaded config file %s", configFile)
	}

	cfg := &Config{
		LogLevel:     strings.ToLower(v.GetString(keyLogLevel)),
		LogJSON:      v.GetBool(keyLogJSON),
		Telemetry:    strings.ToLower(v.GetString(keyTelemetry)),
		OTLPEndpoint: v.GetString(keyOTLPEndpoint),
		ServiceName:  v.GetString(keyServiceName),
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Telemetry {
	case TelemetryNone, TelemetryOTLP:
	default:
		return fmt.Errorf("invalid %s_TELEMETRY '%s' - supported values are %s, %s", EnvPrefix, c.Telemetry, TelemetryNone, TelemetryOTLP)
	}
	if c.Telemetry == TelemetryOTLP && c.OTLPEndpoint == "" {
		return fmt.Errorf("%s_OTLP_ENDPOINT must be set when telemetry is %s", EnvPrefix, TelemetryOTLP)
	}
	return nil
}
