package config

import (
	"time"
)

// DatabaseConfig configures the SQLite mirror of the ledgers.
type DatabaseConfig struct {
	Enabled         bool     `toml:"enabled"`
	DataDir         string   `toml:"dataDir"`         // directory of the database file
	DatabaseName    string   `toml:"databaseName"`    // database file name
	MaxOpenConns    int      `toml:"maxOpenConns"`    // maximum open connections
	MaxIdleConns    int      `toml:"maxIdleConns"`    // maximum idle connections
	ConnMaxLifetime Duration `toml:"connMaxLifetime"` // maximum connection lifetime
	ConnMaxIdleTime Duration `toml:"connMaxIdleTime"` // maximum connection idle time
	// batch delete settings
	BatchDeleteSize  int      `toml:"batchDeleteSize"`
	BatchDeleteDelay Duration `toml:"batchDeleteDelay"`
}

// DefaultDatabaseConfig places miner.db in dataDir.
func DefaultDatabaseConfig(dataDir string) *DatabaseConfig {
	return &DatabaseConfig{
		Enabled:          true,
		DataDir:          dataDir,
		DatabaseName:     "miner.db",
		MaxOpenConns:     1,
		MaxIdleConns:     1,
		ConnMaxLifetime:  Duration{15 * time.Minute},
		ConnMaxIdleTime:  Duration{3 * time.Minute},
		BatchDeleteSize:  1000,
		BatchDeleteDelay: Duration{5 * time.Millisecond},
	}
}
