// Package config provides unified configuration for a glaive server.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (GLAIVE_ prefix)
//  4. Validation
package config

import "time"

// Config holds all configuration for a glaive server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Routing   RoutingConfig   `yaml:"routing"`
	Responses ResponsesConfig `yaml:"responses"`
	Static    StaticConfig    `yaml:"static"`
	Auth      AuthConfig      `yaml:"auth"`
	Session   SessionConfig   `yaml:"session"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`             // default: ":8080"
	MaxBodySize     int64         `yaml:"max_body_size"`    // default: 10 MB
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"` // default: 30s
}

// RoutingConfig holds dispatch routing policy.
type RoutingConfig struct {
	CaseInsensitive bool `yaml:"case_insensitive"` // default: false
	Prefer405       bool `yaml:"prefer_405"`       // default: true
}

// ResponsesConfig holds response finalization policy.
type ResponsesConfig struct {
	AutogenerateETags  bool   `yaml:"autogenerate_etags"`   // default: false
	DynamicGzip        bool   `yaml:"dynamic_gzip"`         // default: true
	DefaultContentType string `yaml:"default_content_type"` // default: "text/plain"
	ServerName         string `yaml:"server_name"`          // default: "glaive"
}

// StaticConfig holds fallback resolution settings.
type StaticConfig struct {
	Dir              string `yaml:"dir"`                // static file root; empty disables
	SinglePageShell  string `yaml:"single_page_shell"`  // shell document; empty disables
	SinglePagePrefix string `yaml:"single_page_prefix"` // path prefix for the shell
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	Type    string         `yaml:"type"`     // "none", "apikey", "jwt"; default: "none"
	APIKeys []APIKeyConfig `yaml:"api_keys"` // entries for type=apikey
	JWT     JWTConfig      `yaml:"jwt"`      // settings for type=jwt
}

// APIKeyConfig describes a single API key entry.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	Subject string `yaml:"subject"`
}

// JWTConfig holds JWT validation settings.
type JWTConfig struct {
	Secret   string `yaml:"secret"`   // HMAC secret
	Issuer   string `yaml:"issuer"`   // expected iss claim; empty skips the check
	Audience string `yaml:"audience"` // expected aud claim; empty skips the check
}

// SessionConfig holds session store settings.
type SessionConfig struct {
	Type     string         `yaml:"type"`     // "none", "memory", "postgres"; default: "none"
	MaxSize  int            `yaml:"max_size"` // memory store entry cap; default: 10000
	TTL      time.Duration  `yaml:"ttl"`      // default: 24h
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific session settings.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConns       int32  `yaml:"max_conns"`        // default: 25
	MigrateOnStart bool   `yaml:"migrate_on_start"` // default: false
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LoggingConfig holds log level and debug category settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// Defaults returns the built-in default configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			MaxBodySize:     10 << 20,
			ShutdownTimeout: 30 * time.Second,
		},
		Routing: RoutingConfig{
			Prefer405: true,
		},
		Responses: ResponsesConfig{
			DynamicGzip:        true,
			DefaultContentType: "text/plain",
			ServerName:         "glaive",
		},
		Auth: AuthConfig{Type: "none"},
		Session: SessionConfig{
			Type:    "none",
			MaxSize: 10000,
			TTL:     24 * time.Hour,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{Level: "INFO"},
	}
}
