// Package app wires configuration, logging, the upstream client and the HTTP handlers together.
package app

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	common "github.com/bobmcallan/weather-mcp/internal/common"
	"github.com/bobmcallan/weather-mcp/internal/config"
	"github.com/bobmcallan/weather-mcp/internal/handlers"
	mcpcore "github.com/bobmcallan/weather-mcp/internal/mcp"
	"github.com/bobmcallan/weather-mcp/internal/weather"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	WeatherClient *weather.Client
	Registry      *mcpcore.Registry
	Dispatcher    *mcpcore.Dispatcher

	// HTTP handlers
	MCPHandler     *mcpcore.Handler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	if issues := cfg.Validate(); len(issues) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(issues, "; "))
	}

	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "prod" && env != "dev" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	a.initCore()
	a.initHandlers()

	logger.Info().
		Str("base_url", a.WeatherClient.BaseURL()).
		Int("tools", len(a.Registry.Names())).
		Msg("application initialization complete")

	return a, nil
}

// initCore builds the upstream client, tool registry and dispatcher.
func (a *App) initCore() {
	a.WeatherClient = weather.NewClient(a.Config.Weather.BaseURL, a.Config.Weather.GetTimeout(), a.Logger)
	a.Registry = mcpcore.NewRegistry(a.WeatherClient)
	a.Dispatcher = mcpcore.NewDispatcher(
		a.Registry,
		mcp.Implementation{Name: a.Config.MCP.Name, Version: config.GetVersion()},
		a.Config.MCP.ProtocolVersion,
		a.Logger,
	)
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.MCPHandler = mcpcore.NewHandler(a.Dispatcher, a.Logger)
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Config.MCP.Name)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	return nil
}
