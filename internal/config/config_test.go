package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshdurbin/minilink/internal/shortener"
)

func TestConfig_Default_Valid(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())

	// Verify server config
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.ServerURL)
	assert.Equal(t, ":8080", cfg.Address())

	// Verify database config
	assert.Equal(t, "minilink.db", cfg.Database.Path)

	// Verify shortener config
	assert.Equal(t, shortener.DefaultConfig(), cfg.Shortener)

	// Verify session config
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)

	// Verify logging config
	assert.False(t, cfg.Logging.Verbose)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestConfig_Validate(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(c *Config)
		expectedErr string
	}{
		{
			name:        "empty server port",
			mutate:      func(c *Config) { c.Server.Port = "" },
			expectedErr: "server port cannot be empty",
		},
		{
			name:        "empty server URL",
			mutate:      func(c *Config) { c.Server.ServerURL = "" },
			expectedErr: "server URL cannot be empty",
		},
		{
			name:        "relative server URL",
			mutate:      func(c *Config) { c.Server.ServerURL = "localhost:8080" },
			expectedErr: "server URL must be an absolute http(s) URL",
		},
		{
			name:        "empty database path",
			mutate:      func(c *Config) { c.Database.Path = "" },
			expectedErr: "database path cannot be empty",
		},
		{
			name:        "zero read timeout",
			mutate:      func(c *Config) { c.Server.ReadTimeout = 0 },
			expectedErr: "read timeout must be positive",
		},
		{
			name:        "negative session ttl",
			mutate:      func(c *Config) { c.Session.TTL = -time.Minute },
			expectedErr: "session ttl must be positive",
		},
		{
			name:        "code length too short",
			mutate:      func(c *Config) { c.Shortener.CodeLength = 2 },
			expectedErr: "code length must be between 4 and 32",
		},
		{
			name:        "zero max attempts",
			mutate:      func(c *Config) { c.Shortener.MaxAttempts = 0 },
			expectedErr: "max attempts must be positive",
		},
		{
			name:        "zero hash iterations",
			mutate:      func(c *Config) { c.Session.HashIterations = 0 },
			expectedErr: "hash iterations must be positive",
		},
		{
			name:        "unknown log level",
			mutate:      func(c *Config) { c.Logging.Level = "loud" },
			expectedErr: "invalid log level",
		},
		{
			name:        "unknown log format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectedErr: "log format must be text or json",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minilink.yaml")
	content := `
server:
  port: "9090"
  server_url: https://mini.link
  read_timeout: 5s
database:
  path: /var/lib/minilink/links.db
logging:
  verbose: true
  format: json
shortener:
  code_length: 9
session:
  secret: s3cret
  ttl: 2h
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "https://mini.link", cfg.Server.ServerURL)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "/var/lib/minilink/links.db", cfg.Database.Path)
	assert.True(t, cfg.Logging.Verbose)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 9, cfg.Shortener.CodeLength)
	assert.Equal(t, "s3cret", cfg.Session.Secret)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)

	// Keys absent from the file keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, shortener.DefaultMaxAttempts, cfg.Shortener.MaxAttempts)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoggingConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger, err := LoggingConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "code", "abc1234")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"code":"abc1234"`)

	_, err = LoggingConfig{Level: "nope", Format: "text"}.NewLogger(&buf)
	assert.Error(t, err)
}
