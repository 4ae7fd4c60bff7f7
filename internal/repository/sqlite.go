package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"coverage-miner/internal/database"
	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"
	"coverage-miner/pkg/logger"
)

// SQLiteLedger mirrors the CSV ledgers into the repositories, tracing and expected tables.
type SQLiteLedger struct {
	db     database.DatabaseManager
	logger logger.Logger
}

func NewSQLiteLedger(db database.DatabaseManager, logger logger.Logger) *SQLiteLedger {
	return &SQLiteLedger{
		db:     db,
		logger: logger,
	}
}

func (r *SQLiteLedger) Reset() error {
	for _, table := range database.Tables() {
		if err := r.db.ClearTable(table); err != nil {
			return fmt.Errorf("[DB] failed to reset %s: %w", table, err)
		}
	}
	return nil
}

func (r *SQLiteLedger) RecordRepository(record *model.RepositoryRecord) error {
	query := `
		INSERT OR REPLACE INTO repositories (id, name, tag, project, root, status, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	var elapsed sql.NullInt64
	if record.Time.Valid {
		elapsed = sql.NullInt64{Int64: int64(record.Time.Value), Valid: true}
	}

	_, err := r.db.GetDB().Exec(query,
		record.ID,
		record.Name,
		record.Tag,
		record.Project,
		record.Root,
		record.Status,
		elapsed,
	)
	if err != nil {
		return fmt.Errorf("[DB] failed to record repository %s: %w", record.Name, err)
	}
	return nil
}

// RecordMethod inserts the tracing and expected rows in one transaction.
func (r *SQLiteLedger) RecordMethod(method *model.CoveredMethod, code *model.ExpectedCode) error {
	tx, err := r.db.BeginTransaction()
	if err != nil {
		return fmt.Errorf("[DB] failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT OR REPLACE INTO expected (id, code) VALUES (?, ?)", code.ID, code.Code); err != nil {
		return fmt.Errorf("[DB] failed to record expected code %d: %w", code.ID, err)
	}

	query := `
		INSERT OR REPLACE INTO tracing (method_id, repo_id, file, start_line, end_line,
			instruction_coverage, line_coverage)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query,
		method.MethodID,
		method.RepoID,
		method.File,
		method.Start,
		method.End,
		method.InstructionCoverage,
		method.LineCoverage,
	); err != nil {
		return fmt.Errorf("[DB] failed to record method %d: %w", method.MethodID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("[DB] failed to commit method %d: %w", method.MethodID, err)
	}
	return nil
}

func (r *SQLiteLedger) Close() error {
	return r.db.Close()
}

// Target implements TraceLookup with a join over tracing and repositories.
func (r *SQLiteLedger) Target(methodID int64) (*model.VerificationTarget, error) {
	query := `
		SELECT t.method_id, t.repo_id, t.file, t.start_line, t.end_line,
			t.instruction_coverage, t.line_coverage,
			r.id, r.name, r.tag, r.project, r.root, r.status, r.time
		FROM tracing t
		JOIN repositories r ON r.id = t.repo_id
		WHERE t.method_id = ?
	`

	var method model.CoveredMethod
	var record model.RepositoryRecord
	var elapsed sql.NullInt64

	err := r.db.GetDB().QueryRow(query, methodID).Scan(
		&method.MethodID,
		&method.RepoID,
		&method.File,
		&method.Start,
		&method.End,
		&method.InstructionCoverage,
		&method.LineCoverage,
		&record.ID,
		&record.Name,
		&record.Tag,
		&record.Project,
		&record.Root,
		&record.Status,
		&elapsed,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("[DB] method %d: %w", methodID, errs.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("[DB] failed to look up method %d: %w", methodID, err)
	}
	if elapsed.Valid {
		record.Time = model.SecondsOf(int(elapsed.Int64))
	}
	return newTarget(&method, &record), nil
}
