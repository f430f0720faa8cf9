package preset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryDefaultsToMemory(t *testing.T) {
	store, err := New(Config{}, Dependencies{})
	require.NoError(t, err)
	assert.IsType(t, &memoryStore{}, store)
}

func TestFactorySQLiteWithHandle(t *testing.T) {
	store, err := New(Config{Driver: DriverSQLite}, Dependencies{SQLiteDB: openTestDB(t)})
	require.NoError(t, err)
	assert.IsType(t, &sqliteStore{}, store)
}

func TestFactorySQLiteWithDSN(t *testing.T) {
	cfg := Config{
		Driver: DriverSQLite,
		SQLite: &SQLiteConfig{DSN: filepath.Join(t.TempDir(), "factory.db")},
	}
	store, err := New(cfg, Dependencies{})
	require.NoError(t, err)
	assert.IsType(t, &sqliteStore{}, store)
}

func TestFactorySQLiteWithoutDSNFails(t *testing.T) {
	_, err := New(Config{Driver: DriverSQLite}, Dependencies{})
	assert.Error(t, err)
}

func TestFactoryRejectsUnknownDriver(t *testing.T) {
	_, err := New(Config{Driver: "etcd"}, Dependencies{})
	assert.Error(t, err, "Should reject drivers outside memory/redis/sqlite")
}
