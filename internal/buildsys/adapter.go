package buildsys

import (
	"context"
	"time"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/harness"
	"coverage-miner/internal/model"
	"coverage-miner/internal/scanner"
	"coverage-miner/pkg/logger"
)

// BuildOutcome is the product of a successful instrumented build.
type BuildOutcome struct {
	ReportPath string
	Elapsed    int
}

// Adapter drives a checkout through detect, verify, inject, build and report location.
// Every failure carries an errs.Cause.
type Adapter struct {
	scanner      scanner.ScannerInterface
	builder      *Builder
	buildTimeout time.Duration
	logger       logger.Logger
}

func NewAdapter(sc scanner.ScannerInterface, builder *Builder, buildTimeout time.Duration, logger logger.Logger) *Adapter {
	return &Adapter{
		scanner:      sc,
		builder:      builder,
		buildTimeout: buildTimeout,
		logger:       logger,
	}
}

// Prepare detects the build root, requires JUnit and injects JaCoCo. Nothing is built.
func (a *Adapter) Prepare(checkout string) (*Project, error) {
	project, err := Detect(a.scanner, checkout)
	if err != nil {
		return nil, err
	}
	a.logger.Info("detected %s project at %q", project.Kind, project.Root)

	if err := VerifyTestFramework(project); err != nil {
		return project, err
	}
	changed, err := Inject(project)
	if err != nil {
		return project, err
	}
	if changed {
		a.logger.Debug("injected jacoco into %s", project.Descriptor())
	}
	return project, nil
}

// Build runs the instrumented build and locates its coverage report.
func (a *Adapter) Build(ctx context.Context, project *Project) (*BuildOutcome, error) {
	res := a.builder.Run(ctx, project.Kind, project.Dir, a.buildTimeout)
	if !res.Completed {
		return nil, errs.Newf(errs.CauseTimeout, "build did not finish within %v", a.buildTimeout)
	}
	if !res.Success {
		return nil, errs.Newf(errs.CauseNonBuildable, "build failed after %ds", res.Elapsed)
	}
	a.logger.Info("built %s in %ds", project.Dir, res.Elapsed)

	report, err := LocateReport(project)
	if err != nil {
		return nil, err
	}
	return &BuildOutcome{ReportPath: report, Elapsed: res.Elapsed}, nil
}

// Rebuild runs an uninstrumented rebuild of an already prepared project.
func (a *Adapter) Rebuild(ctx context.Context, kind model.ProjectKind, dir string, timeout time.Duration) harness.Result {
	return a.builder.Run(ctx, kind, dir, timeout)
}
