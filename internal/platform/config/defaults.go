package config

import "time"

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			IP:   "0.0.0.0",
			Port: 8080,
			Auth: AuthConfig{
				Enabled: false,
			},
		},
		Log: LogConfig{
			Level: "INFO",
			Dir:   "data/logs",
			File:  "server.log",
		},
		Web: WebConfig{
			Enabled:   true,
			StaticDir: "./web",
		},
		Transport: TransportConfig{
			WebSocket: WebSocketConfig{
				Enabled: true,
				IP:      "0.0.0.0",
				Port:    8000,
				Path:    "/stream",
			},
		},
		Engine: EngineConfig{
			DecodeTimeout: 40 * time.Millisecond,
			MinInterval:   500 * time.Millisecond,
			Defaults: EffectDefaults{
				Source:           "",
				Dest:             "",
				Mode:             "jpeg",
				HeaderProtection: true,
				Active:           false,
			},
		},
		Presets: PresetsConfig{
			Driver: "memory",
			SQLite: SQLitePresetConfig{
				DSN: "data/presets.db",
			},
		},
	}
}
