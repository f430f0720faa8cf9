// Package preset persists named corruption configurations so clients can
// switch between saved looks without resending the raw pattern every time.
package preset

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when no preset exists under the given name.
var ErrNotFound = errors.New("preset not found")

// Preset is a named, reusable corruption configuration.
type Preset struct {
	Name             string    `json:"name"`
	Source           string    `json:"source"`
	Dest             string    `json:"dest"`
	Mode             string    `json:"mode"`
	HeaderProtection bool      `json:"header_protection"`
	CreatedAt        time.Time `json:"created_at,omitempty"`
	UpdatedAt        time.Time `json:"updated_at,omitempty"`
}

// Store defines the behaviour required by the preset API and the sessions.
type Store interface {
	Save(ctx context.Context, p Preset) error
	Get(ctx context.Context, name string) (Preset, error)
	List(ctx context.Context) ([]Preset, error)
	Remove(ctx context.Context, name string) error
	Close(ctx context.Context) error
}

// Config describes the high level store selection parameters.
type Config struct {
	Driver string
	TTL    time.Duration
	Redis  *RedisConfig
	SQLite *SQLiteConfig
}

// RedisConfig captures connection options.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
}

// SQLiteConfig provides the database location.
type SQLiteConfig struct {
	DSN string
}
