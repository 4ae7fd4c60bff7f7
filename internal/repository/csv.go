package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"
	"coverage-miner/pkg/logger"

	"github.com/gocarina/gocsv"
)

// CSVLedger appends rows to repositories.csv, tracing.csv and expected.csv.
type CSVLedger struct {
	dir    string
	logger logger.Logger
	mu     sync.Mutex
}

func NewCSVLedger(dir string, logger logger.Logger) *CSVLedger {
	return &CSVLedger{dir: dir, logger: logger}
}

// Path returns the location of one of the ledger files.
func (l *CSVLedger) Path(file string) string {
	return filepath.Join(l.dir, file)
}

// Reset truncates the three ledgers, leaving only their header rows.
func (l *CSVLedger) Reset() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return fmt.Errorf("[CSV] failed to create resources dir: %w", err)
	}
	headers := map[string]any{
		RepositoriesFile: []*model.RepositoryRecord{},
		TracingFile:      []*model.CoveredMethod{},
		ExpectedFile:     []*model.ExpectedCode{},
	}
	for file, empty := range headers {
		if err := writeHeader(l.Path(file), empty); err != nil {
			return err
		}
	}
	l.logger.Debug("ledgers reset in %s", l.dir)
	return nil
}

func (l *CSVLedger) RecordRepository(record *model.RepositoryRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendRows(l.Path(RepositoriesFile), []*model.RepositoryRecord{record})
}

// RecordMethod writes the expected row first so a tracing row never points at missing code.
func (l *CSVLedger) RecordMethod(method *model.CoveredMethod, code *model.ExpectedCode) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := appendRows(l.Path(ExpectedFile), []*model.ExpectedCode{code}); err != nil {
		return err
	}
	return appendRows(l.Path(TracingFile), []*model.CoveredMethod{method})
}

func (l *CSVLedger) Close() error {
	return nil
}

func writeHeader(path string, empty any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[CSV] failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.Marshal(empty, f); err != nil {
		return fmt.Errorf("[CSV] failed to write header of %s: %w", path, err)
	}
	return nil
}

func appendRows(path string, rows any) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("[CSV] failed to open %s: %w", path, err)
	}
	defer f.Close()
	if err := gocsv.MarshalWithoutHeaders(rows, f); err != nil {
		return fmt.Errorf("[CSV] failed to append to %s: %w", path, err)
	}
	return nil
}

func readRows[T any](path string) ([]*T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[CSV] failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows := []*T{}
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return rows, nil
		}
		return nil, fmt.Errorf("[CSV] failed to read %s: %w", path, err)
	}
	return rows, nil
}

// ReadRepositories reads a repositories.csv ledger.
func ReadRepositories(path string) ([]*model.RepositoryRecord, error) {
	return readRows[model.RepositoryRecord](path)
}

// ReadTracing reads a tracing.csv ledger.
func ReadTracing(path string) ([]*model.CoveredMethod, error) {
	return readRows[model.CoveredMethod](path)
}

// ReadExpected reads an expected.csv ledger.
func ReadExpected(path string) ([]*model.ExpectedCode, error) {
	return readRows[model.ExpectedCode](path)
}

// ReadInputRepositories reads the mining input. Only the name column is used; rows without a
// name are dropped.
func ReadInputRepositories(path string) ([]*model.InputRepository, error) {
	rows, err := readRows[model.InputRepository](path)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, row := range rows {
		row.Name = strings.TrimSpace(row.Name)
		if row.Name != "" {
			out = append(out, row)
		}
	}
	return out, nil
}

// PredictionColumns is the exact header set a predictions file must have.
var PredictionColumns = []string{"id", "predicted_method", "masked_code", "predicted_code"}

// ErrInvalidPredictions is returned when a predictions file does not have exactly PredictionColumns.
var ErrInvalidPredictions = errors.New("invalid predictions file: expected columns id, predicted_method, masked_code, predicted_code")

// ReadPredictions validates the header of a predictions file and reads its rows.
func ReadPredictions(path string) ([]*model.Prediction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[CSV] failed to open %s: %w", path, err)
	}
	defer f.Close()

	header, err := csv.NewReader(f).Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrInvalidPredictions
		}
		return nil, fmt.Errorf("[CSV] failed to read header of %s: %w", path, err)
	}
	if !sameColumns(header, PredictionColumns) {
		return nil, fmt.Errorf("%w, got %s", ErrInvalidPredictions, strings.Join(header, ","))
	}
	return readRows[model.Prediction](path)
}

func sameColumns(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	a := make([]string, len(got))
	for i, c := range got {
		a[i] = strings.TrimSpace(c)
	}
	b := append([]string(nil), want...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// CSVTraceLookup joins tracing.csv with repositories.csv in memory.
type CSVTraceLookup struct {
	tracing      map[int64]*model.CoveredMethod
	repositories map[int64]*model.RepositoryRecord
}

// LoadCSVTraceLookup reads both ledgers from dir.
func LoadCSVTraceLookup(dir string) (*CSVTraceLookup, error) {
	methods, err := ReadTracing(filepath.Join(dir, TracingFile))
	if err != nil {
		return nil, err
	}
	records, err := ReadRepositories(filepath.Join(dir, RepositoriesFile))
	if err != nil {
		return nil, err
	}

	lookup := &CSVTraceLookup{
		tracing:      make(map[int64]*model.CoveredMethod, len(methods)),
		repositories: make(map[int64]*model.RepositoryRecord, len(records)),
	}
	for _, m := range methods {
		lookup.tracing[m.MethodID] = m
	}
	for _, r := range records {
		lookup.repositories[r.ID] = r
	}
	return lookup, nil
}

func (l *CSVTraceLookup) Target(methodID int64) (*model.VerificationTarget, error) {
	method, ok := l.tracing[methodID]
	if !ok {
		return nil, fmt.Errorf("method %d: %w", methodID, errs.ErrRecordNotFound)
	}
	record, ok := l.repositories[method.RepoID]
	if !ok {
		return nil, fmt.Errorf("repository %d of method %d: %w", method.RepoID, methodID, errs.ErrRecordNotFound)
	}
	return newTarget(method, record), nil
}

func newTarget(method *model.CoveredMethod, record *model.RepositoryRecord) *model.VerificationTarget {
	return &model.VerificationTarget{
		MethodID: method.MethodID,
		RepoName: record.Name,
		Root:     record.Root,
		File:     method.File,
		Start:    method.Start,
		End:      method.End,
		Project:  model.ProjectKind(record.Project),
		Time:     record.Time,
	}
}

// VerificationLog appends one row per verified prediction to a log.csv file.
type VerificationLog struct {
	path string
	mu   sync.Mutex
}

// CreateVerificationLog truncates path and writes the header row.
func CreateVerificationLog(path string) (*VerificationLog, error) {
	if err := writeHeader(path, []*model.VerificationLog{}); err != nil {
		return nil, err
	}
	return &VerificationLog{path: path}, nil
}

func (l *VerificationLog) Append(row *model.VerificationLog) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return appendRows(l.path, []*model.VerificationLog{row})
}
