package buildsys

import (
	"fmt"
	"os"
	"strings"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"
)

const junitMarker = "junit"

// VerifyTestFramework requires JUnit to be declared by the project's build file.
func VerifyTestFramework(p *Project) error {
	content, err := os.ReadFile(p.Descriptor())
	if err != nil {
		return fmt.Errorf("failed to read build file: %w", err)
	}

	switch p.Kind {
	case model.ProjectMaven:
		pom, err := parsePom(content)
		if err != nil {
			return errs.New(errs.CauseMissingJUnit, fmt.Errorf("unparsable pom: %w", err))
		}
		if !anyContains(pom.Dependencies, junitMarker) {
			return errs.Newf(errs.CauseMissingJUnit, "no junit dependency among %d", len(pom.Dependencies))
		}
		return nil
	case model.ProjectGradle:
		if !strings.Contains(string(content), junitMarker) {
			return errs.Newf(errs.CauseMissingJUnit, "%s does not mention junit", GradleFile)
		}
		return nil
	default:
		return fmt.Errorf("unsupported project kind %q", p.Kind)
	}
}
