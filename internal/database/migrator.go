package database

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"coverage-miner/pkg/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Migration struct {
	Version     string
	Description string
	SQL         string
}

type Migrator struct {
	db     *sql.DB
	logger logger.Logger
	source fs.FS
}

// NewMigrator reads migrations embedded in the binary.
func NewMigrator(db *sql.DB, logger logger.Logger) *Migrator {
	return &Migrator{
		db:     db,
		logger: logger,
		source: migrationFS,
	}
}

func (m *Migrator) CreateMigrationTable() error {
	sql := `
		CREATE TABLE IF NOT EXISTS migrations (
			version VARCHAR(255) PRIMARY KEY,
			description TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := m.db.Exec(sql); err != nil {
		return fmt.Errorf("failed to create migrations table: %v", err)
	}
	return nil
}

func (m *Migrator) GetAppliedMigrations() (map[string]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %v", err)
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %v", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// GetAvailableMigrations lists migration files sorted by version. File names look like
// 20250101000000_create_ledger_tables.sql: a 14 digit version, an action out of
// create/update/delete, then a description.
func (m *Migrator) GetAvailableMigrations() ([]Migration, error) {
	files, err := fs.ReadDir(m.source, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %v", err)
	}

	var migrations []Migration
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		version, description, ok := parseMigrationName(file.Name())
		if !ok {
			continue
		}
		content, err := fs.ReadFile(m.source, "migrations/"+file.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration file %s: %v", file.Name(), err)
		}
		migrations = append(migrations, Migration{
			Version:     version,
			Description: description,
			SQL:         string(content),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
	return migrations, nil
}

func parseMigrationName(name string) (version, description string, ok bool) {
	if !strings.HasSuffix(name, ".sql") {
		return "", "", false
	}
	baseName := strings.TrimSuffix(name, ".sql")
	parts := strings.Split(baseName, "_")
	if len(parts) < 4 || len(parts[0]) != 14 {
		return "", "", false
	}
	switch parts[1] {
	case "create", "update", "delete":
	default:
		return "", "", false
	}
	return parts[0], baseName, true
}

// ApplyMigration runs one migration and records it in the same transaction.
func (m *Migrator) ApplyMigration(migration Migration) error {
	m.logger.Info("Applying migration %s", migration.Description)

	tx, err := m.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(migration.SQL); err != nil {
		return fmt.Errorf("failed to execute migration SQL: %v", err)
	}
	if _, err := tx.Exec(
		"INSERT INTO migrations (version, description, applied_at) VALUES (?, ?, ?)",
		migration.Version, migration.Description, time.Now(),
	); err != nil {
		return fmt.Errorf("failed to record migration version: %v", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %v", err)
	}
	return nil
}

// AutoMigrate applies every migration not yet recorded.
func (m *Migrator) AutoMigrate() error {
	if err := m.CreateMigrationTable(); err != nil {
		return err
	}
	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}
	available, err := m.GetAvailableMigrations()
	if err != nil {
		return err
	}

	for _, migration := range available {
		if applied[migration.Version] {
			continue
		}
		if err := m.ApplyMigration(migration); err != nil {
			return fmt.Errorf("failed to apply migration %s: %v", migration.Version, err)
		}
	}
	return nil
}
