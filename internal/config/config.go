package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshdurbin/minilink/internal/shortener"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Database  DatabaseConfig   `yaml:"database"`
	Logging   LoggingConfig    `yaml:"logging"`
	Shortener shortener.Config `yaml:"shortener"`
	Session   SessionConfig    `yaml:"session"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `yaml:"port"`
	ServerURL       string        `yaml:"server_url"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Verbose bool   `yaml:"verbose"` // log every request
	Level   string `yaml:"level"`   // debug, info, warn, error
	Format  string `yaml:"format"`  // text or json
}

// SessionConfig holds login session configuration
type SessionConfig struct {
	Secret         string        `yaml:"secret"`
	TTL            time.Duration `yaml:"ttl"`
	SecureCookie   bool          `yaml:"secure_cookie"`
	HashIterations int           `yaml:"hash_iterations"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			ServerURL:       "http://localhost:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path: "minilink.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Shortener: shortener.DefaultConfig(),
		Session: SessionConfig{
			TTL:            24 * time.Hour,
			HashIterations: 29000,
		},
	}
}

// LoadFile reads a YAML file on top of the defaults. Keys missing from the
// file keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port cannot be empty")
	}

	if c.Server.ServerURL == "" {
		return fmt.Errorf("server URL cannot be empty")
	}
	if u, err := url.Parse(c.Server.ServerURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server URL must be an absolute http(s) URL, got: %q", c.Server.ServerURL)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path cannot be empty")
	}

	for name, d := range map[string]time.Duration{
		"read timeout":     c.Server.ReadTimeout,
		"write timeout":    c.Server.WriteTimeout,
		"idle timeout":     c.Server.IdleTimeout,
		"shutdown timeout": c.Server.ShutdownTimeout,
		"session ttl":      c.Session.TTL,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got: %v", name, d)
		}
	}

	if c.Shortener.CodeLength < 4 || c.Shortener.CodeLength > 32 {
		return fmt.Errorf("code length must be between 4 and 32, got: %d", c.Shortener.CodeLength)
	}

	if c.Shortener.MaxAttempts < 1 {
		return fmt.Errorf("max attempts must be positive, got: %d", c.Shortener.MaxAttempts)
	}

	if c.Session.HashIterations < 1 {
		return fmt.Errorf("hash iterations must be positive, got: %d", c.Session.HashIterations)
	}

	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log format must be text or json, got: %q", c.Logging.Format)
	}

	return nil
}

// Address returns the listen address for the HTTP server
func (c *Config) Address() string {
	return ":" + c.Server.Port
}

// NewLogger builds the structured logger described by the logging config
func (l LoggingConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
