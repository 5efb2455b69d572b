package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

func init() {
	// Load .env file if it exists (silent fail if not)
	_ = godotenv.Load()
}

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server   ServerConfig
	GW2      GW2Config
	Database DatabaseConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

// GW2Config holds the tracker's Guild Wars 2 API settings. The key needs
// the "inventories" and "wallet" permissions.
type GW2Config struct {
	APIKey       string        `envconfig:"GW2_API_KEY" default:""`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"30s"`
	AutoStart    string        `envconfig:"AUTO_START" default:"disabled"` // disabled|login|hourly|daily
}

// DatabaseConfig holds the sqlite history database settings.
type DatabaseConfig struct {
	Path string `envconfig:"DB_PATH" default:"./loot_tracker.db"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.GW2.PollInterval < time.Second {
		return nil, fmt.Errorf("poll interval %v is below the 1s minimum", cfg.GW2.PollInterval)
	}
	return &cfg, nil
}
