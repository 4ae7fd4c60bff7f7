package service

import (
	"context"
	"time"

	"coverage-miner/internal/buildsys"
	"coverage-miner/internal/harness"
	"coverage-miner/internal/model"
)

//go:generate mockgen -destination=../../test/mocks/mock_service.go -package=mocks coverage-miner/internal/service SourceFetcher,BuildAdapter,PredictionVerifier

// SourceFetcher clones a repository and checks out its most recent tag.
type SourceFetcher interface {
	Fetch(ctx context.Context, name, dir string) (string, error)
}

// BuildAdapter prepares, builds and rebuilds Maven and Gradle projects.
type BuildAdapter interface {
	Prepare(checkout string) (*buildsys.Project, error)
	Build(ctx context.Context, project *buildsys.Project) (*buildsys.BuildOutcome, error)
	Rebuild(ctx context.Context, kind model.ProjectKind, dir string, timeout time.Duration) harness.Result
}

// PredictionVerifier rebuilds a mined repository with one method replaced.
type PredictionVerifier interface {
	Verify(ctx context.Context, target *model.VerificationTarget, predicted string) (model.VerificationOutcome, error)
}
