package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid
// values. Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}
	if c.Server.MaxBodySize <= 0 {
		errs = append(errs, fmt.Errorf("server.max_body_size must be > 0, got %d", c.Server.MaxBodySize))
	}

	switch c.Auth.Type {
	case "none", "apikey", "jwt":
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}
	if c.Auth.Type == "apikey" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys is required when auth.type is \"apikey\""))
	}
	if c.Auth.Type == "jwt" && c.Auth.JWT.Secret == "" {
		errs = append(errs, fmt.Errorf("auth.jwt.secret is required when auth.type is \"jwt\""))
	}

	switch c.Session.Type {
	case "none", "memory", "postgres":
	default:
		errs = append(errs, fmt.Errorf("session.type must be \"none\", \"memory\", or \"postgres\", got %q", c.Session.Type))
	}
	if c.Session.Type == "postgres" && c.Session.Postgres.DSN == "" {
		errs = append(errs, fmt.Errorf("session.postgres.dsn is required when session.type is \"postgres\""))
	}

	if c.Static.SinglePageShell != "" && c.Static.Dir == "" {
		errs = append(errs, fmt.Errorf("static.dir is required when static.single_page_shell is set"))
	}

	return errors.Join(errs...)
}
