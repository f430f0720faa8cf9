package config

import "time"

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Web       WebConfig       `yaml:"web"`
	Transport TransportConfig `yaml:"transport"`
	Engine    EngineConfig    `yaml:"engine"`
	Presets   PresetsConfig   `yaml:"presets"`
}

type ServerConfig struct {
	IP   string     `yaml:"ip"`
	Port int        `yaml:"port"`
	Auth AuthConfig `yaml:"auth"`
}

type AuthConfig struct {
	Enabled bool   `yaml:"enabled"`
	Secret  string `yaml:"secret"`
}

type LogConfig struct {
	Level string `yaml:"log_level"`
	Dir   string `yaml:"log_dir"`
	File  string `yaml:"log_file"`
}

type WebConfig struct {
	Enabled   bool   `yaml:"enabled"`
	StaticDir string `yaml:"static_dir"`
}

// TransportConfig groups the optional transports beside the HTTP API.
type TransportConfig struct {
	WebSocket WebSocketConfig `yaml:"websocket"`
}

type WebSocketConfig struct {
	Enabled bool   `yaml:"enabled"`
	IP      string `yaml:"ip"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}

// EngineConfig tunes the corruption engine and the invocation policy the
// transports enforce around it.
type EngineConfig struct {
	DecodeTimeout time.Duration  `yaml:"decode_timeout"`
	MinInterval   time.Duration  `yaml:"min_interval"`
	Defaults      EffectDefaults `yaml:"defaults"`
}

// EffectDefaults is the pattern configuration applied to fresh engines.
type EffectDefaults struct {
	Source           string `yaml:"source"`
	Dest             string `yaml:"dest"`
	Mode             string `yaml:"mode"`
	HeaderProtection bool   `yaml:"header_protection"`
	Active           bool   `yaml:"active"`
}

// PresetsConfig selects the backing store for named corruption presets.
type PresetsConfig struct {
	Driver string             `yaml:"driver"`
	TTL    time.Duration      `yaml:"ttl"`
	Redis  RedisPresetConfig  `yaml:"redis"`
	SQLite SQLitePresetConfig `yaml:"sqlite"`
}

type RedisPresetConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

type SQLitePresetConfig struct {
	DSN string `yaml:"dsn,omitempty"`
}
