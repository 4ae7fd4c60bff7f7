package buildsys

import (
	"os"
	"path/filepath"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"
)

// LocateReport returns the JaCoCo XML report produced by a finished build.
func LocateReport(p *Project) (string, error) {
	var reportsDir string
	var report []string
	switch p.Kind {
	case model.ProjectMaven:
		reportsDir = filepath.Join(p.Dir, "target", "site")
		report = []string{"jacoco", "jacoco.xml"}
	case model.ProjectGradle:
		reportsDir = filepath.Join(p.Dir, "build", "reports")
		report = []string{"jacoco", "test", "jacocoTestReport.xml"}
	default:
		return "", errs.Newf(errs.CauseNoReport, "unsupported project kind %q", p.Kind)
	}

	entries, err := os.ReadDir(reportsDir)
	if err != nil {
		return "", errs.New(errs.CauseNoReport, err)
	}
	for _, entry := range entries {
		if entry.Name() == jacocoMarker {
			return filepath.Join(append([]string{reportsDir}, report...)...), nil
		}
	}
	return "", errs.Newf(errs.CauseNoReport, "no jacoco output in %s", reportsDir)
}
