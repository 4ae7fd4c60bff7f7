package buildsys

import (
	"context"
	"fmt"
	"strings"
	"time"

	"coverage-miner/internal/harness"
	"coverage-miner/internal/model"
	"coverage-miner/pkg/logger"
)

const (
	mavenSuccessMarker  = "BUILD SUCCESS"
	gradleSuccessMarker = "BUILD SUCCESSFUL"
)

// Executables names the build tools to invoke.
type Executables struct {
	Maven  string
	Gradle string
}

// DefaultExecutables resolves the tools from PATH.
func DefaultExecutables() Executables {
	return Executables{Maven: "mvn", Gradle: "gradle"}
}

// Builder compiles and tests projects under the timeout harness.
type Builder struct {
	executables Executables
	logger      logger.Logger
}

func NewBuilder(executables Executables, logger logger.Logger) *Builder {
	return &Builder{executables: executables, logger: logger}
}

// Run builds and tests the project in dir. The result is successful iff the build tool
// reported success within timeout.
func (b *Builder) Run(ctx context.Context, kind model.ProjectKind, dir string, timeout time.Duration) harness.Result {
	return harness.RunWithTimeout(ctx, timeout, b.task(kind, dir))
}

func (b *Builder) task(kind model.ProjectKind, dir string) harness.Task {
	return func(ctx context.Context) (bool, error) {
		switch kind {
		case model.ProjectMaven:
			// install only prepares the reactor; the verdict comes from the test phase
			if _, err := b.run(ctx, dir, b.executables.Maven, "clean", "install", "-DskipTests"); err != nil {
				return false, err
			}
			out, err := b.run(ctx, dir, b.executables.Maven, "test")
			if err != nil {
				return false, err
			}
			return strings.Contains(out, mavenSuccessMarker), nil
		case model.ProjectGradle:
			out, err := b.run(ctx, dir, b.executables.Gradle, "clean", "build")
			if err != nil {
				return false, err
			}
			return strings.Contains(out, gradleSuccessMarker), nil
		default:
			return false, fmt.Errorf("unsupported project kind %q", kind)
		}
	}
}

// run returns the combined output of one build step. Only cancellation is an error; a
// failing or missing tool just yields output without the success marker.
func (b *Builder) run(ctx context.Context, dir, name string, args ...string) (string, error) {
	startTime := time.Now()
	out, err := harness.CombinedOutput(ctx, dir, name, args...)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	if err != nil {
		b.logger.Debug("%s %s in %s exited with: %v", name, strings.Join(args, " "), dir, err)
	}
	b.logger.Debug("%s %s finished in %v", name, strings.Join(args, " "), time.Since(startTime))
	return string(out), nil
}
