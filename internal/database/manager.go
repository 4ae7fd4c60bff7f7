package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"coverage-miner/internal/config"
	"coverage-miner/pkg/logger"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
)

// DatabaseManager owns the SQLite connection of the ledger mirror.
type DatabaseManager interface {
	Initialize() error
	Close() error
	GetDB() *sql.DB
	BeginTransaction() (*sql.Tx, error)
	// ClearTable removes every row of a ledger table
	ClearTable(tableName string) error
}

// tableKeys maps each ledger table to its primary key column.
var tableKeys = map[string]string{
	"repositories": "id",
	"tracing":      "method_id",
	"expected":     "id",
}

// Tables lists the ledger tables.
func Tables() []string {
	return []string{"repositories", "tracing", "expected"}
}

type SQLiteManager struct {
	db       *sql.DB
	config   *config.DatabaseConfig
	logger   logger.Logger
	mutex    sync.RWMutex
	migrator *Migrator
}

func NewSQLiteManager(config *config.DatabaseConfig, logger logger.Logger) DatabaseManager {
	return &SQLiteManager{
		config: config,
		logger: logger,
	}
}

// Initialize opens the database and applies pending migrations.
func (m *SQLiteManager) Initialize() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if err := os.MkdirAll(m.config.DataDir, 0755); err != nil {
		return err
	}
	dbPath := filepath.Join(m.config.DataDir, m.config.DatabaseName)

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return err
	}

	db.SetMaxOpenConns(m.config.MaxOpenConns)
	db.SetMaxIdleConns(m.config.MaxIdleConns)
	db.SetConnMaxLifetime(m.config.ConnMaxLifetime.Duration)
	db.SetConnMaxIdleTime(m.config.ConnMaxIdleTime.Duration)

	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}

	m.db = db
	m.migrator = NewMigrator(m.db, m.logger)
	if err := m.migrator.AutoMigrate(); err != nil {
		return err
	}

	m.logger.Info("Database initialized successfully")
	return nil
}

func (m *SQLiteManager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.db != nil {
		return m.db.Close()
	}
	return nil
}

func (m *SQLiteManager) GetDB() *sql.DB {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return m.db
}

func (m *SQLiteManager) BeginTransaction() (*sql.Tx, error) {
	return m.db.Begin()
}

// ClearTable deletes rows in batches inside one transaction.
func (m *SQLiteManager) ClearTable(tableName string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	key, ok := tableKeys[tableName]
	if !ok {
		return fmt.Errorf("invalid table name: %s", tableName)
	}

	var totalCount int
	if err := m.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)).Scan(&totalCount); err != nil {
		return fmt.Errorf("failed to get table row count: %v", err)
	}
	if totalCount == 0 {
		m.logger.Debug("Table %s is already empty", tableName)
		return nil
	}

	batchSize := m.config.BatchDeleteSize
	if batchSize <= 0 {
		batchSize = totalCount
	}

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	deletedCount := 0
	for deletedCount < totalCount {
		result, err := tx.Exec(fmt.Sprintf("DELETE FROM %s WHERE %s IN (SELECT %s FROM %s ORDER BY %s LIMIT %d)",
			tableName, key, key, tableName, key, batchSize))
		if err != nil {
			return fmt.Errorf("failed to delete batch: %v", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %v", err)
		}
		if affected == 0 {
			break
		}
		deletedCount += int(affected)

		if deletedCount < totalCount && m.config.BatchDeleteDelay.Duration > 0 {
			time.Sleep(m.config.BatchDeleteDelay.Duration)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	m.logger.Info("Table %s cleared successfully, %d records deleted", tableName, deletedCount)
	return nil
}
