package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"coverage-miner/internal/archive"
	"coverage-miner/internal/config"
	"coverage-miner/internal/model"
	"coverage-miner/internal/utils"
	"coverage-miner/pkg/logger"
)

// VerifierService checks whether a predicted method keeps a mined project building and passing.
type VerifierService interface {
	PredictionVerifier
}

type verifierService struct {
	cfg     *config.Config
	store   archive.Store
	adapter BuildAdapter
	logger  logger.Logger
}

func NewVerifierService(cfg *config.Config, store archive.Store, adapter BuildAdapter, logger logger.Logger) VerifierService {
	return &verifierService{
		cfg:     cfg,
		store:   store,
		adapter: adapter,
		logger:  logger,
	}
}

// Verify extracts the archived repository into a private scratch directory, replaces lines
// [Start, End) of the target file with predicted, and rebuilds. The scratch directory is
// always removed; the archive is never modified.
func (v *verifierService) Verify(ctx context.Context, target *model.VerificationTarget, predicted string) (model.VerificationOutcome, error) {
	id, err := utils.GenerateUUID()
	if err != nil {
		return "", fmt.Errorf("failed to generate scratch id: %w", err)
	}
	scratch := filepath.Join(v.cfg.Paths.TmpEvaluateDir, id)
	defer func() {
		if err := os.RemoveAll(scratch); err != nil {
			v.logger.Warn("failed to remove scratch %s: %v", scratch, err)
		}
	}()

	name := target.ArchiveName()
	if err := v.store.Extract(ctx, name, scratch); err != nil {
		return "", err
	}

	projectDir, err := utils.SafeJoin(scratch, path.Join(name, target.Root))
	if err != nil {
		return "", err
	}
	file, err := utils.SafeJoin(projectDir, target.File)
	if err != nil {
		return "", err
	}
	if err := spliceFile(file, target.Start, target.End, predicted); err != nil {
		return "", err
	}

	buildSeconds := 0
	if target.Time.Valid {
		buildSeconds = target.Time.Value
	}
	timeout := v.cfg.VerifyTimeout(buildSeconds)
	res := v.adapter.Rebuild(ctx, rebuildKind(target.Project), projectDir, timeout)

	outcome := classify(res.Completed, res.Success)
	v.logger.Info("method %d of %s: %s after %ds (deadline %v)", target.MethodID, target.RepoName, outcome, res.Elapsed, timeout)
	return outcome, nil
}

// rebuildKind treats anything that is not Maven as Gradle.
func rebuildKind(kind model.ProjectKind) model.ProjectKind {
	if kind == model.ProjectMaven {
		return model.ProjectMaven
	}
	return model.ProjectGradle
}

func classify(completed, success bool) model.VerificationOutcome {
	switch {
	case !completed:
		return model.OutcomeTimedOut
	case success:
		return model.OutcomePassed
	default:
		return model.OutcomeFailed
	}
}

func spliceFile(file string, start, end int, replacement string) error {
	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", file, err)
	}
	spliced, err := Splice(string(content), start, end, replacement)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}
	if err := os.WriteFile(file, []byte(spliced), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

// Splice replaces lines [start, end) of content with replacement, inserted as is. Line
// terminators of the surrounding lines are kept.
func Splice(content string, start, end int, replacement string) (string, error) {
	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if start < 0 || end < start || end > len(lines) {
		return "", fmt.Errorf("span [%d, %d) outside of %d lines", start, end, len(lines))
	}

	var b strings.Builder
	for _, line := range lines[:start] {
		b.WriteString(line)
	}
	b.WriteString(replacement)
	for _, line := range lines[end:] {
		b.WriteString(line)
	}
	return b.String(), nil
}
