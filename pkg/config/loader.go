package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, GLAIVE_CONFIG env, ./glaive.yaml,
//     /etc/glaive/glaive.yaml)
//  3. Environment variable overrides
//  4. Validation
func Load(configPath string) (*Config, error) {
	cfg := Defaults()

	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery
// order: explicit argument, GLAIVE_CONFIG, ./glaive.yaml,
// /etc/glaive/glaive.yaml. Returns "" when none is found.
func discoverConfigFile(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("GLAIVE_CONFIG"); envPath != "" {
		return envPath
	}
	for _, path := range []string{"glaive.yaml", "/etc/glaive/glaive.yaml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	return nil
}

// applyEnvOverrides maps GLAIVE_* environment variables onto config
// fields. Unparsable values are ignored in favor of the current value.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GLAIVE_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("GLAIVE_MAX_BODY_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Server.MaxBodySize = n
		}
	}
	if v := os.Getenv("GLAIVE_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("GLAIVE_CASE_INSENSITIVE"); v != "" {
		cfg.Routing.CaseInsensitive = v == "true"
	}
	if v := os.Getenv("GLAIVE_PREFER_405"); v != "" {
		cfg.Routing.Prefer405 = v == "true"
	}
	if v := os.Getenv("GLAIVE_AUTOGENERATE_ETAGS"); v != "" {
		cfg.Responses.AutogenerateETags = v == "true"
	}
	if v := os.Getenv("GLAIVE_DYNAMIC_GZIP"); v != "" {
		cfg.Responses.DynamicGzip = v == "true"
	}
	if v := os.Getenv("GLAIVE_SERVER_NAME"); v != "" {
		cfg.Responses.ServerName = v
	}
	if v := os.Getenv("GLAIVE_STATIC_DIR"); v != "" {
		cfg.Static.Dir = v
	}
	if v := os.Getenv("GLAIVE_SESSION_DSN"); v != "" {
		cfg.Session.Postgres.DSN = v
	}
	if v := os.Getenv("GLAIVE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("GLAIVE_DEBUG"); v != "" {
		cfg.Logging.Debug = v
	}
}
