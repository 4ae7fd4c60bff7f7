package repository

import (
	"errors"

	"coverage-miner/internal/model"
)

// Ledger file names inside the resources directory.
const (
	RepositoriesFile = "repositories.csv"
	TracingFile      = "tracing.csv"
	ExpectedFile     = "expected.csv"
)

// Ledger persists the results of a mining run. Rows are append-only.
type Ledger interface {
	// Reset discards every previously recorded row.
	Reset() error
	// RecordRepository appends the single row describing a mined repository.
	RecordRepository(record *model.RepositoryRecord) error
	// RecordMethod appends a harvested method and its isolated code under the same id.
	RecordMethod(method *model.CoveredMethod, code *model.ExpectedCode) error
	Close() error
}

// TraceLookup resolves a prediction id to the repository location it was mined from.
type TraceLookup interface {
	Target(methodID int64) (*model.VerificationTarget, error)
}

// MultiLedger writes every row to each of its ledgers in order.
type MultiLedger struct {
	ledgers []Ledger
}

func NewMultiLedger(ledgers ...Ledger) *MultiLedger {
	return &MultiLedger{ledgers: ledgers}
}

func (m *MultiLedger) Reset() error {
	var errs []error
	for _, l := range m.ledgers {
		errs = append(errs, l.Reset())
	}
	return errors.Join(errs...)
}

func (m *MultiLedger) RecordRepository(record *model.RepositoryRecord) error {
	var errs []error
	for _, l := range m.ledgers {
		errs = append(errs, l.RecordRepository(record))
	}
	return errors.Join(errs...)
}

func (m *MultiLedger) RecordMethod(method *model.CoveredMethod, code *model.ExpectedCode) error {
	var errs []error
	for _, l := range m.ledgers {
		errs = append(errs, l.RecordMethod(method, code))
	}
	return errors.Join(errs...)
}

func (m *MultiLedger) Close() error {
	var errs []error
	for _, l := range m.ledgers {
		errs = append(errs, l.Close())
	}
	return errors.Join(errs...)
}
