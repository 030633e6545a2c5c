package config

import (
	"github.com/mark3labs/mcp-go/mcp"

	common "github.com/bobmcallan/weather-mcp/internal/common"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 3000,
			Host: "0.0.0.0",
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.weatherapi.com/v1",
			Timeout: "30s",
		},
		MCP: MCPConfig{
			Name:            "weather-mcp",
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/weather-mcp.log",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}
