package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("default server.addr = %q, want \":8080\"", cfg.Server.Addr)
	}
	if cfg.Server.MaxBodySize != 10<<20 {
		t.Errorf("default server.max_body_size = %d, want 10 MB", cfg.Server.MaxBodySize)
	}
	if !cfg.Routing.Prefer405 {
		t.Error("default routing.prefer_405 = false, want true")
	}
	if cfg.Routing.CaseInsensitive {
		t.Error("default routing.case_insensitive = true, want false")
	}
	if !cfg.Responses.DynamicGzip {
		t.Error("default responses.dynamic_gzip = false, want true")
	}
	if cfg.Responses.DefaultContentType != "text/plain" {
		t.Errorf("default responses.default_content_type = %q, want \"text/plain\"", cfg.Responses.DefaultContentType)
	}
	if cfg.Session.Type != "none" {
		t.Errorf("default session.type = %q, want \"none\"", cfg.Session.Type)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("default session.ttl = %v, want 24h", cfg.Session.TTL)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("default metrics.path = %q, want \"/metrics\"", cfg.Metrics.Path)
	}
}

func TestLoadFromYAML(t *testing.T) {
	yamlContent := `
server:
  addr: ":9090"
  shutdown_timeout: 10s
routing:
  case_insensitive: true
  prefer_405: false
responses:
  autogenerate_etags: true
  server_name: myapp
static:
  dir: ./public
  single_page_shell: index.html
  single_page_prefix: /app
session:
  type: memory
  max_size: 500
`
	path := filepath.Join(t.TempDir(), "glaive.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("server.addr = %q, want \":9090\"", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("server.shutdown_timeout = %v, want 10s", cfg.Server.ShutdownTimeout)
	}
	if !cfg.Routing.CaseInsensitive {
		t.Error("routing.case_insensitive not applied")
	}
	if cfg.Routing.Prefer405 {
		t.Error("routing.prefer_405 not overridden to false")
	}
	if !cfg.Responses.AutogenerateETags {
		t.Error("responses.autogenerate_etags not applied")
	}
	if cfg.Responses.ServerName != "myapp" {
		t.Errorf("responses.server_name = %q, want \"myapp\"", cfg.Responses.ServerName)
	}
	if cfg.Session.Type != "memory" || cfg.Session.MaxSize != 500 {
		t.Errorf("session = %+v, want memory/500", cfg.Session)
	}
	// Unset values keep their defaults.
	if !cfg.Responses.DynamicGzip {
		t.Error("responses.dynamic_gzip lost its default")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GLAIVE_ADDR", ":7070")
	t.Setenv("GLAIVE_PREFER_405", "false")
	t.Setenv("GLAIVE_SERVER_NAME", "env-name")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("server.addr = %q, want \":7070\"", cfg.Server.Addr)
	}
	if cfg.Routing.Prefer405 {
		t.Error("GLAIVE_PREFER_405=false not applied")
	}
	if cfg.Responses.ServerName != "env-name" {
		t.Errorf("responses.server_name = %q, want \"env-name\"", cfg.Responses.ServerName)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad auth type", func(c *Config) { c.Auth.Type = "oauth3" }},
		{"apikey without keys", func(c *Config) { c.Auth.Type = "apikey" }},
		{"jwt without secret", func(c *Config) { c.Auth.Type = "jwt" }},
		{"bad session type", func(c *Config) { c.Session.Type = "redis" }},
		{"postgres without dsn", func(c *Config) { c.Session.Type = "postgres" }},
		{"spa without static dir", func(c *Config) { c.Static.SinglePageShell = "index.html" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate succeeded, want error")
			}
		})
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load of explicit missing file succeeded, want error")
	}
}
