package buildsys

import (
	"fmt"
	"os"
	"path/filepath"

	"coverage-miner/internal/errs"
	"coverage-miner/internal/model"
	"coverage-miner/internal/scanner"
)

// Detect finds the first directory, in pre-order, holding a build file. Maven wins over
// Gradle inside the same directory.
func Detect(sc scanner.ScannerInterface, checkout string) (*Project, error) {
	rel, found, err := sc.FindDir(checkout, func(dir string) bool {
		return isFile(filepath.Join(dir, PomFile)) || isFile(filepath.Join(dir, GradleFile))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk checkout: %w", err)
	}
	if !found {
		return nil, errs.Newf(errs.CauseInvalidProject, "no %s or %s under %s", PomFile, GradleFile, checkout)
	}

	root := rel
	if root == "." {
		root = ""
	}
	dir := filepath.Join(checkout, filepath.FromSlash(rel))
	kind := model.ProjectGradle
	if isFile(filepath.Join(dir, PomFile)) {
		kind = model.ProjectMaven
	}
	return &Project{Kind: kind, Root: root, Dir: dir}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
