package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshdurbin/minilink/internal/auth"
	"github.com/joshdurbin/minilink/internal/config"
	"github.com/joshdurbin/minilink/internal/domain"
	"github.com/joshdurbin/minilink/internal/metrics"
	"github.com/joshdurbin/minilink/internal/repository/sqlite"
	"github.com/joshdurbin/minilink/internal/service"
	"github.com/joshdurbin/minilink/internal/shortener"
	"github.com/joshdurbin/minilink/internal/transport/client"
	httpTransport "github.com/joshdurbin/minilink/internal/transport/http"
)

const tokenEnv = "MINILINK_TOKEN"

var rootCmd = &cobra.Command{
	Use:          "minilink",
	Short:        "A URL shortening service written in Go",
	Long:         "A URL shortening service with SQLite storage, click analytics and optional accounts that own links",
	SilenceUsage: true,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the URL shortening server",
	RunE:  runServer,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations and exit",
	RunE:  runMigrate,
}

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client commands for interacting with the server",
}

var createCmd = &cobra.Command{
	Use:   "create [URL]",
	Short: "Create a short link",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

var getCmd = &cobra.Command{
	Use:   "get [SHORT_CODE]",
	Short: "Get information about a short link",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var updateCmd = &cobra.Command{
	Use:   "update [SHORT_CODE]",
	Short: "Update the target, code, label or expiry of a short link",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpdate,
}

var deleteCmd = &cobra.Command{
	Use:   "delete [SHORT_CODE]",
	Short: "Delete a short link",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List short links",
	RunE:  runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats [SHORT_CODE]",
	Short: "Show click analytics of a short link",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

var signupCmd = &cobra.Command{
	Use:   "signup [USERNAME] [PASSWORD]",
	Short: "Create an account and print a session token",
	Args:  cobra.ExactArgs(2),
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login [USERNAME] [PASSWORD]",
	Short: "Log in and print a session token",
	Args:  cobra.ExactArgs(2),
	RunE:  runLogin,
}

func init() {
	defaults := config.Default()

	// Server command flags
	serverCmd.Flags().StringP("config", "c", "", "Path to a YAML configuration file")
	serverCmd.Flags().StringP("port", "p", defaults.Server.Port, "Server port")
	serverCmd.Flags().String("server-url", defaults.Server.ServerURL, "Public base URL used to build short links")
	serverCmd.Flags().String("db-path", defaults.Database.Path, "Database file path")
	serverCmd.Flags().Int("code-length", defaults.Shortener.CodeLength, "Length of generated short codes")
	serverCmd.Flags().Int("max-attempts", defaults.Shortener.MaxAttempts, "Attempts to find a free generated code before giving up")
	serverCmd.Flags().String("session-secret", "", "HMAC secret for session tokens (random per process when empty)")
	serverCmd.Flags().Duration("session-ttl", defaults.Session.TTL, "Lifetime of a login session")
	serverCmd.Flags().Bool("secure-cookie", defaults.Session.SecureCookie, "Mark the session cookie Secure")
	serverCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging (every HTTP request)")
	serverCmd.Flags().String("log-level", defaults.Logging.Level, "Log level: debug, info, warn, error")
	serverCmd.Flags().String("log-format", defaults.Logging.Format, "Log format: text or json")

	migrateCmd.Flags().String("db-path", defaults.Database.Path, "Database file path")

	// Client command flags
	clientCmd.PersistentFlags().StringP("server-url", "u", defaults.Server.ServerURL, "Server URL")
	clientCmd.PersistentFlags().StringP("token", "t", "", "Session token (defaults to $"+tokenEnv+")")

	createCmd.Flags().String("code", "", "Custom short code")
	createCmd.Flags().String("label", "", "Free-form label")
	createCmd.Flags().String("expires", "", "Expiry time in RFC 3339 format")
	updateCmd.Flags().String("url", "", "New target URL")
	updateCmd.Flags().String("code", "", "New short code")
	updateCmd.Flags().String("label", "", "New label (empty clears it)")
	updateCmd.Flags().String("expires", "", "New expiry time in RFC 3339 format")
	listCmd.Flags().String("sort", "", "Sort order: created (default) or clicks")

	// Add subcommands
	clientCmd.AddCommand(createCmd, getCmd, updateCmd, deleteCmd, listCmd, statsCmd, signupCmd, loginCmd)
	rootCmd.AddCommand(serverCmd, migrateCmd, clientCmd)
}

// loadConfig layers the optional config file and explicitly set flags over the defaults
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	flags := cmd.Flags()

	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if flags.Changed("port") {
		cfg.Server.Port, _ = flags.GetString("port")
	}
	if flags.Changed("server-url") {
		cfg.Server.ServerURL, _ = flags.GetString("server-url")
	}
	if flags.Changed("db-path") {
		cfg.Database.Path, _ = flags.GetString("db-path")
	}
	if flags.Changed("code-length") {
		cfg.Shortener.CodeLength, _ = flags.GetInt("code-length")
	}
	if flags.Changed("max-attempts") {
		cfg.Shortener.MaxAttempts, _ = flags.GetInt("max-attempts")
	}
	if flags.Changed("session-secret") {
		cfg.Session.Secret, _ = flags.GetString("session-secret")
	}
	if flags.Changed("session-ttl") {
		cfg.Session.TTL, _ = flags.GetDuration("session-ttl")
	}
	if flags.Changed("secure-cookie") {
		cfg.Session.SecureCookie, _ = flags.GetBool("secure-cookie")
	}
	if flags.Changed("verbose") {
		cfg.Logging.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format, _ = flags.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := cfg.Logging.NewLogger(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	slog.SetDefault(logger)

	if cfg.Session.Secret == "" {
		secret := make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		cfg.Session.Secret = hex.EncodeToString(secret)
		logger.Warn("no session secret configured, sessions will not survive a restart")
	}

	logger.Info("starting minilink server", "port", cfg.Server.Port, "server_url", cfg.Server.ServerURL, "db_path", cfg.Database.Path)

	m := metrics.New()

	// Initialize database
	repo, err := sqlite.New(cfg.Database.Path, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("error closing repository", "error", err)
		}
	}()

	// Initialize code allocation
	allocator, err := shortener.NewAllocatorFromConfig(cfg.Shortener, repo, m, logger)
	if err != nil {
		return fmt.Errorf("failed to create code allocator: %w", err)
	}
	logger.Info("code allocator ready", "code_length", cfg.Shortener.CodeLength, "max_attempts", allocator.MaxAttempts())

	sessions, err := auth.NewSessions(cfg.Session.Secret, cfg.Session.TTL, nil)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}
	logger.Info("sessions ready", "ttl", sessions.TTL(), "secure_cookie", cfg.Session.SecureCookie)

	opts := service.Options{
		ServerURL: cfg.Server.ServerURL,
		Logger:    logger,
		Metrics:   m,
	}
	links := service.NewLinkService(repo, allocator, opts)
	accounts := service.NewAccountService(repo, auth.NewHasher(cfg.Session.HashIterations), sessions, opts)

	defer func() {
		if err := links.Close(); err != nil {
			logger.Error("error closing link service", "error", err)
		}
	}()

	// Create and start HTTP server
	server := httpTransport.NewServer(links, accounts, cfg, m, logger)

	// Set up graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in a goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-sigChan:
		logger.Info("shutting down gracefully", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("error during server shutdown", "error", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db-path")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	m, err := sqlite.NewMigrator(dbPath, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info("database is up to date", "db_path", dbPath, "version", version, "dirty", dirty)
	return nil
}

func newCommands(cmd *cobra.Command) *client.Commands {
	serverURL, _ := cmd.Flags().GetString("server-url")
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv(tokenEnv)
	}
	return client.NewCommands(client.NewClient(serverURL, token), cmd.OutOrStdout())
}

func clientContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func parseExpiry(value string) (*time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("invalid --expires value %q: expected RFC 3339, e.g. 2026-12-31T23:59:59Z", value)
	}
	return &t, nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	req := domain.CreateLinkRequest{OriginalURL: args[0]}
	req.CustomCode, _ = cmd.Flags().GetString("code")

	if cmd.Flags().Changed("label") {
		label, _ := cmd.Flags().GetString("label")
		req.Label = &label
	}
	if expires, _ := cmd.Flags().GetString("expires"); expires != "" {
		t, err := parseExpiry(expires)
		if err != nil {
			return err
		}
		req.ExpiresAt = t
	}

	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Create(ctx, req)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Get(ctx, args[0])
}

func runUpdate(cmd *cobra.Command, args []string) error {
	var req domain.UpdateLinkRequest
	flags := cmd.Flags()

	if flags.Changed("url") {
		v, _ := flags.GetString("url")
		req.OriginalURL = &v
	}
	if flags.Changed("code") {
		v, _ := flags.GetString("code")
		req.CustomCode = &v
	}
	if flags.Changed("label") {
		v, _ := flags.GetString("label")
		req.Label = &v
	}
	if flags.Changed("expires") {
		v, _ := flags.GetString("expires")
		t, err := parseExpiry(v)
		if err != nil {
			return err
		}
		req.ExpiresAt = t
	}

	if req.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one of --url, --code, --label, --expires")
	}

	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Update(ctx, args[0], req)
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Delete(ctx, args[0])
}

func runList(cmd *cobra.Command, args []string) error {
	sort, _ := cmd.Flags().GetString("sort")

	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).List(ctx, sort)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Stats(ctx, args[0])
}

func runSignup(cmd *cobra.Command, args []string) error {
	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Signup(ctx, domain.CredentialsRequest{Username: args[0], Password: args[1]})
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := clientContext()
	defer cancel()

	return newCommands(cmd).Login(ctx, domain.CredentialsRequest{Username: args[0], Password: args[1]})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
