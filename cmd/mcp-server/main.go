package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/quantfeed/twelvedata-mcp/pkg/config"
	"github.com/quantfeed/twelvedata-mcp/pkg/service/bootstrap"
	"github.com/quantfeed/twelvedata-mcp/pkg/service/tools"
	"github.com/quantfeed/twelvedata-mcp/pkg/service/transport"
	"github.com/quantfeed/twelvedata-mcp/pkg/upstream"
)

const serverName = "twelvedata-mcp"

// Build-time variables set via ldflags
var (
	// Version is the semantic version of the application
	Version = "dev"
	// GitCommit is the git commit SHA at build time
	GitCommit = "unknown"
	// BuildTime is the time of the build
	BuildTime = "unknown"
)

// flagConfig holds command line flag values that override the environment.
type flagConfig struct {
	transport string
	httpPort  int
	logLevel  string
	envFile   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &flagConfig{}

	cmd := &cobra.Command{
		Use:          serverName,
		Short:        "MCP server exposing the Twelve Data market-data API as typed tools",
		Version:      fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(flags)
		},
	}

	cmd.Flags().StringVar(&flags.transport, "transport", "", "Transport type (stdio, http)")
	cmd.Flags().IntVar(&flags.httpPort, "http-port", 0, "HTTP port (http transport only)")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Path to a .env file to load")

	return cmd
}

func run(flags *flagConfig) error {
	loadEnvFile(flags.envFile)

	cfg, err := loadAndConfigure(flags)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	logger := newComponentLogger(cfg.LogLevel)

	// The only unrecoverable error kind: a missing credential halts startup
	// before any transport is bound.
	client, err := upstream.New(cfg.APIKey)
	if err != nil {
		log.Error().Err(err).Str("env", config.EnvAPIKey).Msg("Failed to configure upstream client")
		return err
	}

	boot := bootstrap.NewBootstrapper(logger, tools.ToolDependencies{
		Client: client,
		Logger: logger,
	})
	mcpServer := boot.CreateMCPServer(serverName, Version)
	if err := boot.RegisterComponents(mcpServer); err != nil {
		log.Error().Err(err).Msg("Failed to register components")
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager := transport.NewManager(logger, transport.TransportType(cfg.Transport), cfg.HTTPPort)
	if err := manager.Start(ctx, mcpServer); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Transport stopped with error")
		return err
	}

	log.Info().Msg("Server stopped")
	return nil
}

// loadEnvFile loads a .env file when present; a missing default file is
// not an error.
func loadEnvFile(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Failed to load env file")
		}
		return
	}
	_ = godotenv.Load()
}

// loadAndConfigure loads configuration and applies flag overrides.
func loadAndConfigure(flags *flagConfig) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flags.transport != "" {
		cfg.Transport = flags.transport
	}
	if flags.httpPort > 0 {
		cfg.HTTPPort = flags.httpPort
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	setupProcessLogging(cfg.LogLevel)
	return cfg, nil
}

// setupProcessLogging configures the zerolog global used for process-level
// events. Logs go to stderr so the stdio transport stays clean.
func setupProcessLogging(level string) {
	log.Logger = log.Output(os.Stderr)
	switch strings.ToLower(level) {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// newComponentLogger builds the slog logger handed to service components.
func newComponentLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
