package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	common "github.com/bobmcallan/weather-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Environment string               `toml:"environment"`
	Server      ServerConfig         `toml:"server"`
	Weather     WeatherConfig        `toml:"weather"`
	MCP         MCPConfig            `toml:"mcp"`
	Logging     common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

// WeatherConfig contains upstream weather API settings.
// The API key is never configured here: callers supply it per request.
type WeatherConfig struct {
	BaseURL string `toml:"base_url"`
	Timeout string `toml:"timeout"`
}

// GetTimeout parses and returns the upstream timeout duration.
func (c *WeatherConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// MCPConfig contains the identity advertised in the initialize handshake.
type MCPConfig struct {
	Name            string `toml:"name"`
	ProtocolVersion string `toml:"protocol_version"`
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config.
// PORT is honoured for platforms that inject it; WEATHER_MCP_SERVER_PORT wins over it.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if port := os.Getenv("WEATHER_MCP_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("WEATHER_MCP_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if env := os.Getenv("WEATHER_MCP_ENV"); env != "" {
		config.Environment = env
	}
	if baseURL := os.Getenv("WEATHER_API_BASE_URL"); baseURL != "" {
		config.Weather.BaseURL = baseURL
	}
	if timeout := os.Getenv("WEATHER_API_TIMEOUT"); timeout != "" {
		config.Weather.Timeout = timeout
	}
	if level := os.Getenv("WEATHER_MCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// IsDevMode reports whether the environment is set to dev.
func (c *Config) IsDevMode() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "dev")
}

// Validate checks mandatory configuration and returns a list of issues.
// An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535 (got %d)", c.Server.Port))
	}

	if strings.TrimSpace(c.Weather.BaseURL) == "" {
		issues = append(issues, "weather.base_url is required")
	} else if u, err := url.Parse(c.Weather.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		issues = append(issues, fmt.Sprintf("weather.base_url must be an absolute http(s) URL (got %q)", c.Weather.BaseURL))
	}

	if c.Weather.Timeout != "" {
		if d, err := time.ParseDuration(c.Weather.Timeout); err != nil || d <= 0 {
			issues = append(issues, fmt.Sprintf("weather.timeout must be a positive duration (got %q)", c.Weather.Timeout))
		}
	}

	if strings.TrimSpace(c.MCP.Name) == "" {
		issues = append(issues, "mcp.name is required")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("logging.level must be one of trace, debug, info, warn, error (got %q)", c.Logging.Level))
	}

	return issues
}
