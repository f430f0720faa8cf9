package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"glitchcam-server-go/internal/platform/errors"
)

const defaultConfigPath = ".config.yaml"

// Loader reads the yaml configuration file, layered over DefaultConfig.
type Loader struct {
	useDotEnv bool
	path      string
}

func NewLoader() *Loader {
	return &Loader{
		useDotEnv: true,
		path:      defaultConfigPath,
	}
}

// WithDotEnv toggles loading variables from a .env file before reading config.
func (l *Loader) WithDotEnv(enabled bool) *Loader {
	l.useDotEnv = enabled
	return l
}

// WithPath overrides the configuration file location (useful for tests).
func (l *Loader) WithPath(path string) *Loader {
	if path != "" {
		l.path = path
	}
	return l
}

// Result captures the loaded configuration and its origin path.
type Result struct {
	Config *Config
	Path   string
}

// Load reads the config file if present, otherwise falls back to defaults.
// The GLITCHCAM_CONFIG environment variable takes precedence over the
// configured path.
func (l *Loader) Load() (*Result, error) {
	if l.useDotEnv {
		if err := godotenv.Load(); err != nil {
			fmt.Println("no .env file found, using system environment")
		}
	}

	path := l.path
	if env := os.Getenv("GLITCHCAM_CONFIG"); env != "" {
		path = env
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Result{Config: cfg, Path: ""}, nil
		}
		return nil, errors.Wrap(errors.KindConfig, "loader.read", "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.KindConfig, "loader.parse", "failed to parse config file", err)
	}

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}

	return &Result{Config: cfg, Path: path}, nil
}

// Validate rejects configurations the server cannot start with.
func (l *Loader) Validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("invalid server port: %d", cfg.Server.Port))
	}
	if cfg.Transport.WebSocket.Enabled {
		if cfg.Transport.WebSocket.Port <= 0 || cfg.Transport.WebSocket.Port > 65535 {
			return errors.New(errors.KindConfig, "loader.validate",
				fmt.Sprintf("invalid websocket port: %d", cfg.Transport.WebSocket.Port))
		}
	}
	if cfg.Server.Auth.Enabled && cfg.Server.Auth.Secret == "" {
		return errors.New(errors.KindConfig, "loader.validate",
			"auth enabled but no secret configured")
	}
	if cfg.Engine.DecodeTimeout <= 0 {
		return errors.New(errors.KindConfig, "loader.validate",
			"engine decode_timeout must be positive")
	}
	switch cfg.Presets.Driver {
	case "", "memory", "redis", "sqlite":
	default:
		return errors.New(errors.KindConfig, "loader.validate",
			fmt.Sprintf("unknown presets driver: %s", cfg.Presets.Driver))
	}
	return nil
}
