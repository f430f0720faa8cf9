package preset

import (
	"fmt"

	"gorm.io/gorm"

	"glitchcam-server-go/internal/platform/storage"
)

// Driver identifiers supported by the preset domain.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Dependencies captures external handles required by certain drivers. A nil
// SQLiteDB makes the factory open the DSN from the config itself.
type Dependencies struct {
	SQLiteDB *gorm.DB
}

// New creates a preset store based on the provided configuration.
func New(cfg Config, deps Dependencies) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverMemory
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite:
		db := deps.SQLiteDB
		if db == nil {
			if cfg.SQLite == nil || cfg.SQLite.DSN == "" {
				return nil, fmt.Errorf("sqlite driver requires a DSN or database handle")
			}
			opened, err := storage.Open(cfg.SQLite.DSN)
			if err != nil {
				return nil, err
			}
			db = opened
		}
		return NewSQLite(db)
	case DriverRedis:
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unsupported preset store driver: %s", driver)
	}
}
