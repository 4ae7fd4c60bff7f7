// Package buildsys detects, instruments, builds and inspects Maven and Gradle projects.
package buildsys

import (
	"path/filepath"

	"coverage-miner/internal/model"
)

const (
	PomFile    = "pom.xml"
	GradleFile = "build.gradle"
)

// Project is a detected build root inside a checkout.
type Project struct {
	Kind model.ProjectKind
	// Root is the build root relative to the checkout, empty when it is the checkout itself.
	Root string
	// Dir is the build root on disk.
	Dir string
}

// Descriptor returns the path of the build file.
func (p *Project) Descriptor() string {
	return descriptorPath(p.Kind, p.Dir)
}

func descriptorPath(kind model.ProjectKind, dir string) string {
	if kind == model.ProjectGradle {
		return filepath.Join(dir, GradleFile)
	}
	return filepath.Join(dir, PomFile)
}
