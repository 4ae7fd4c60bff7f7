package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime/debug"
	"time"

	"coverage-miner/internal/archive"
	"coverage-miner/internal/buildsys"
	"coverage-miner/internal/config"
	"coverage-miner/internal/errs"
	"coverage-miner/internal/isolator"
	"coverage-miner/internal/jacoco"
	"coverage-miner/internal/metrics"
	"coverage-miner/internal/model"
	"coverage-miner/internal/repository"
	"coverage-miner/internal/utils"
	"coverage-miner/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MiningService turns a list of repositories into the tracing and expected ledgers.
type MiningService interface {
	// MineAll resets the ledgers and mines every repository named in the input CSV.
	MineAll(ctx context.Context, inputCSV string) (*MiningReport, error)
	// Analyze mines one repository and records exactly one repository row for it.
	Analyze(ctx context.Context, repoID int64, name string) *model.RepositoryRecord
}

// MiningReport summarizes a MineAll run.
type MiningReport struct {
	Repositories int
	Succeeded    int
	Methods      int
	ByStatus     map[string]int
}

type miningService struct {
	cfg       *config.Config
	fetcher   SourceFetcher
	adapter   BuildAdapter
	store     archive.Store
	ledger    repository.Ledger
	methodIDs *model.Sequence
	lines     *lru.Cache[string, []string]
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewMiningService wires the mining pipeline. methodIDs hands out method ids across all
// repositories of a run.
func NewMiningService(
	cfg *config.Config,
	fetcher SourceFetcher,
	adapter BuildAdapter,
	store archive.Store,
	ledger repository.Ledger,
	methodIDs *model.Sequence,
	metrics *metrics.Metrics,
	logger logger.Logger,
) (MiningService, error) {
	size := cfg.Build.LineCacheSize
	if size <= 0 {
		size = 1
	}
	lines, err := lru.New[string, []string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create source line cache: %w", err)
	}
	return &miningService{
		cfg:       cfg,
		fetcher:   fetcher,
		adapter:   adapter,
		store:     store,
		ledger:    ledger,
		methodIDs: methodIDs,
		lines:     lines,
		metrics:   metrics,
		logger:    logger,
	}, nil
}

func (s *miningService) MineAll(ctx context.Context, inputCSV string) (*MiningReport, error) {
	rows, err := repository.ReadInputRepositories(inputCSV)
	if err != nil {
		return nil, fmt.Errorf("failed to read input repositories: %w", err)
	}

	if err := s.ledger.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset ledgers: %w", err)
	}
	if err := utils.ResetDir(s.cfg.Paths.TmpMineDir); err != nil {
		return nil, err
	}
	defer os.RemoveAll(s.cfg.Paths.TmpMineDir)

	report := &MiningReport{ByStatus: make(map[string]int)}
	s.logger.Info("mining %d repositories", len(rows))
	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("mining interrupted after %d of %d repositories", i, len(rows))
			return report, err
		}
		s.logger.Info("[%d/%d] %s", i+1, len(rows), row.Name)

		firstID := s.methodIDs.Peek()
		record := s.Analyze(ctx, int64(i), row.Name)

		report.Repositories++
		report.ByStatus[record.Status]++
		if record.Succeeded() {
			report.Succeeded++
		}
		report.Methods += int(s.methodIDs.Peek() - firstID)
	}
	return report, nil
}

func (s *miningService) Analyze(ctx context.Context, repoID int64, name string) (record *model.RepositoryRecord) {
	record = model.NewRepositoryRecord(repoID, name)
	checkoutDir := filepath.Join(s.cfg.Paths.TmpMineDir, model.ReformatRepoName(name))
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("unexpected panic while mining %s: %v\n%s", name, r, debug.Stack())
			markFailed(record, errs.CauseUnknown)
		}
		if err := os.RemoveAll(checkoutDir); err != nil {
			s.logger.Warn("failed to remove checkout %s: %v", checkoutDir, err)
		}
		s.lines.Purge()
		if err := s.ledger.RecordRepository(record); err != nil {
			s.logger.Error("failed to record repository %s: %v", name, err)
		}
		s.metrics.ObserveRepository(record)
		s.logger.Info("%s finished with status %s in %v", name, record.Status, time.Since(startTime))
	}()

	methods, err := s.mine(ctx, record, checkoutDir)
	if err == nil {
		err = s.recordMethods(record.ID, methods)
	}
	if err != nil {
		if !errs.IsTyped(err) {
			s.logger.Error("unexpected error while mining %s: %v\n%s", name, err, debug.Stack())
		} else {
			s.logger.Warn("%s failed: %v", name, err)
		}
		markFailed(record, errs.CauseOf(err))
		return record
	}
	record.Status = model.StatusSuccess
	return record
}

// markFailed applies the failure row conventions: the root is unknown, and so is the build
// time unless the build itself succeeded and only archiving failed.
func markFailed(record *model.RepositoryRecord, cause errs.Cause) {
	record.Status = string(cause)
	record.Root = model.NotAvailable
	if cause != errs.CauseUnzippable {
		record.Time = model.Seconds{}
	}
}

// harvestedMethod is a covered method isolated from its source, not yet given an id.
type harvestedMethod struct {
	covered *model.CoveredMethod
	code    string
}

// mine runs the pipeline for one repository. Harvested methods are returned rather than
// recorded, so a repository that fails never leaves method rows behind.
func (s *miningService) mine(ctx context.Context, record *model.RepositoryRecord, checkoutDir string) ([]harvestedMethod, error) {
	tag, err := s.fetcher.Fetch(ctx, record.Name, checkoutDir)
	if err != nil {
		return nil, err
	}
	record.Tag = tag

	project, err := s.adapter.Prepare(checkoutDir)
	if project != nil {
		record.Project = string(project.Kind)
	}
	if err != nil {
		return nil, err
	}

	outcome, err := s.adapter.Build(ctx, project)
	if err != nil {
		return nil, err
	}
	record.Time = model.SecondsOf(outcome.Elapsed)

	if _, err := s.store.Save(ctx, model.ReformatRepoName(record.Name), checkoutDir); err != nil {
		return nil, err
	}

	methods, err := jacoco.ParseReport(outcome.ReportPath)
	if err != nil {
		return nil, errs.New(errs.CauseNoReport, err)
	}
	harvested := s.harvest(record.ID, project, methods)
	s.logger.Info("harvested %d of %d covered methods from %s", len(harvested), len(methods), record.Name)

	record.Root = project.Root
	return harvested, nil
}

// harvest isolates every covered method it can find in the sources. Methods whose source
// file is missing or whose body cannot be isolated are skipped.
func (s *miningService) harvest(repoID int64, project *buildsys.Project, methods []jacoco.Method) []harvestedMethod {
	var harvested []harvestedMethod
	for _, method := range methods {
		file, lines, ok := s.locateSource(project.Dir, method)
		if !ok {
			s.metrics.MethodSkipped()
			continue
		}

		isolated, err := isolator.Isolate(lines, method.Line, method.Name)
		if err != nil {
			s.logger.Debug("skipping %s in %s: %v", method.Name, file, err)
			s.metrics.MethodSkipped()
			continue
		}

		harvested = append(harvested, harvestedMethod{
			covered: &model.CoveredMethod{
				RepoID:              repoID,
				File:                file,
				Start:               isolated.Start,
				End:                 isolated.End,
				InstructionCoverage: method.InstructionCoverage,
				LineCoverage:        method.LineCoverage,
			},
			code: isolated.Code,
		})
	}
	return harvested
}

// recordMethods hands out method ids and writes the tracing and expected rows.
func (s *miningService) recordMethods(repoID int64, methods []harvestedMethod) error {
	for _, m := range methods {
		id := s.methodIDs.Next()
		m.covered.MethodID = id
		if err := s.ledger.RecordMethod(m.covered, &model.ExpectedCode{ID: id, Code: m.code}); err != nil {
			return fmt.Errorf("failed to record method %d of repository %d: %w", id, repoID, err)
		}
		s.metrics.MethodHarvested()
	}
	return nil
}

// locateSource finds the method's file under the first candidate source directory that has
// it. The returned path is relative to the build root.
func (s *miningService) locateSource(projectDir string, method jacoco.Method) (string, []string, bool) {
	for _, srcDir := range s.cfg.Build.SourceDirs {
		rel := path.Join(srcDir, method.Package, method.SourceFile)
		abs := filepath.Join(projectDir, filepath.FromSlash(rel))
		if !utils.FileExists(abs) {
			continue
		}
		lines, err := s.readLines(abs)
		if err != nil {
			s.logger.Warn("failed to read %s: %v", abs, err)
			return "", nil, false
		}
		return rel, lines, true
	}
	return "", nil, false
}

func (s *miningService) readLines(file string) ([]string, error) {
	if lines, ok := s.lines.Get(file); ok {
		return lines, nil
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	lines := isolator.SplitLines(string(content))
	s.lines.Add(file, lines)
	return lines, nil
}
