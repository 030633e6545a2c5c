package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bobmcallan/weather-mcp/internal/app"
	common "github.com/bobmcallan/weather-mcp/internal/common"
	"github.com/bobmcallan/weather-mcp/internal/config"
	"github.com/bobmcallan/weather-mcp/internal/server"
)

// shutdownTimeout bounds graceful shutdown of in-flight requests.
const shutdownTimeout = 10 * time.Second

// options holds the parsed command-line flags.
type options struct {
	configFiles []string
	port        int
	host        string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the weather-mcp command.
func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "weather-mcp",
		Short: "MCP JSON-RPC gateway for the WeatherAPI.com REST API",
		Long: `weather-mcp serves the Model Context Protocol over HTTP (POST /mcp) and exposes
three tools: getCurrentWeather, getWeatherForecast and searchLocations.
Callers supply their own WeatherAPI key as "Authorization: Bearer <key>".`,
		Version:      config.GetFullVersion(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVarP(&opts.configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times)")
	flags.IntVarP(&opts.port, "port", "p", 0, "Server port (overrides config)")
	flags.StringVar(&opts.host, "host", "", "Server host (overrides config)")

	return cmd
}

// loadConfig resolves config files, applies flag overrides and validates the result.
func loadConfig(opts *options, stderr io.Writer) (*config.Config, error) {
	configFiles := opts.configFiles

	// Auto-discover config file if not specified.
	if len(configFiles) == 0 {
		for _, path := range configSearchPaths() {
			if _, err := os.Stat(path); err == nil {
				configFiles = append(configFiles, path)
				break
			}
		}
	}

	cfg, err := config.LoadFromFiles(configFiles...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// CLI flags have the highest priority
	config.ApplyFlagOverrides(cfg, opts.port, opts.host)

	if issues := cfg.Validate(); len(issues) > 0 {
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Configuration error: mandatory fields are missing or invalid:")
		fmt.Fprintln(stderr, "")
		for _, issue := range issues {
			fmt.Fprintf(stderr, "  - %s\n", issue)
		}
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Values can be set via TOML file, WEATHER_* environment variables, or CLI flags.")
		fmt.Fprintln(stderr, "")
		return nil, fmt.Errorf("invalid configuration (%d issues)", len(issues))
	}

	opts.configFiles = configFiles
	return cfg, nil
}

func run(opts *options, stderr io.Writer) error {
	cfg, err := loadConfig(opts, stderr)
	if err != nil {
		return err
	}

	logger := common.NewLoggerFromConfig(cfg.Logging)

	logger.Info().
		Int("port", cfg.Server.Port).
		Str("host", cfg.Server.Host).
		Str("environment", cfg.Environment).
		Str("base_url", cfg.Weather.BaseURL).
		Str("config_files", fmt.Sprintf("%v", opts.configFiles)).
		Msg("configuration loaded")

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error().Str("error", err.Error()).Msg("failed to initialize application")
		return err
	}

	srv := server.New(application)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	logger.Info().
		Str("url", fmt.Sprintf("http://%s:%d/mcp", cfg.Server.Host, cfg.Server.Port)).
		Str("version", config.GetVersion()).
		Msg("server ready")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errChan:
		if err != nil {
			logger.Error().Str("error", err.Error()).Msg("server failed to start")
			return err
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Str("error", err.Error()).Msg("server shutdown failed")
	}

	if err := application.Close(); err != nil {
		logger.Error().Str("error", err.Error()).Msg("application shutdown failed")
	}

	logger.Info().Msg("server stopped")
	return nil
}

// configSearchPaths returns TOML files to auto-discover (first match wins).
// Binary-relative paths are tried first, with CWD fallbacks after.
// Paths are deduplicated via filepath.Abs.
func configSearchPaths() []string {
	candidates := []string{
		"weather-mcp.toml",
		"config/weather-mcp.toml",
	}

	exe, err := os.Executable()
	if err != nil {
		return candidates
	}
	binDir := filepath.Dir(exe)

	paths := []string{
		filepath.Join(binDir, "weather-mcp.toml"),
		filepath.Join(binDir, "config", "weather-mcp.toml"),
	}
	paths = append(paths, candidates...)

	seen := make(map[string]bool, len(paths))
	deduped := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		deduped = append(deduped, p)
	}
	return deduped
}
