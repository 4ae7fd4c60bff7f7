package buildsys

import (
	"fmt"
	"os"
	"strings"

	"coverage-miner/internal/model"
)

const jacocoMarker = "jacoco"

// Patcher edits a build descriptor so the build emits a JaCoCo report. Patch reports
// whether content changed; patching an already patched descriptor is a no-op.
type Patcher interface {
	Patch(content []byte) ([]byte, bool, error)
}

// PatcherFor returns the patcher of a build system.
func PatcherFor(kind model.ProjectKind) (Patcher, error) {
	switch kind {
	case model.ProjectMaven:
		return MavenPatcher{}, nil
	case model.ProjectGradle:
		return GradlePatcher{}, nil
	default:
		return nil, fmt.Errorf("unsupported project kind %q", kind)
	}
}

// Inject patches the project's build file in place.
func Inject(p *Project) (bool, error) {
	patcher, err := PatcherFor(p.Kind)
	if err != nil {
		return false, err
	}
	path := p.Descriptor()
	info, err := os.Stat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat build file: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read build file: %w", err)
	}
	patched, changed, err := patcher.Patch(content)
	if err != nil || !changed {
		return false, err
	}
	if err := os.WriteFile(path, patched, info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("failed to write build file: %w", err)
	}
	return true, nil
}

const mavenJacocoDependency = `
<dependency>
    <groupId>org.jacoco</groupId>
    <artifactId>jacoco-maven-plugin</artifactId>
    <version>0.8.5</version>
</dependency>
`

const mavenJacocoPlugin = `
<plugin>
    <groupId>org.jacoco</groupId>
    <artifactId>jacoco-maven-plugin</artifactId>
    <version>0.8.5</version>
    <executions>
        <execution>
            <goals>
                <goal>prepare-agent</goal>
            </goals>
        </execution>
        <execution>
            <id>report</id>
            <phase>test</phase>
            <goals>
                <goal>report</goal>
            </goals>
        </execution>
    </executions>
</plugin>
`

// MavenPatcher adds the jacoco-maven-plugin before every </plugins> and its artifact before
// every </dependencies>. A pom without any plugins section gets one in its build section.
type MavenPatcher struct{}

func (MavenPatcher) Patch(content []byte) ([]byte, bool, error) {
	pom, err := parsePom(content)
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse pom: %w", err)
	}
	if anyContains(pom.Dependencies, jacocoMarker) || anyContains(pom.Plugins, jacocoMarker) {
		return content, false, nil
	}
	if len(pom.Empty) > 0 {
		content = expandEmpty(content, pom.Empty)
		if pom, err = parsePom(content); err != nil {
			return nil, false, fmt.Errorf("failed to parse pom: %w", err)
		}
	}

	text := string(content)
	switch {
	case strings.Contains(text, "</plugins>"):
		text = strings.ReplaceAll(text, "</plugins>", mavenJacocoPlugin+"</plugins>")
	case pom.BuildEnd >= 0:
		text = text[:pom.BuildEnd] + "<plugins>" + mavenJacocoPlugin + "</plugins>\n" + text[pom.BuildEnd:]
	case pom.ProjectEnd >= 0:
		text = text[:pom.ProjectEnd] + "<build>\n<plugins>" + mavenJacocoPlugin + "</plugins>\n</build>\n" + text[pom.ProjectEnd:]
	}
	text = strings.ReplaceAll(text, "</dependencies>", mavenJacocoDependency+"</dependencies>")
	return []byte(text), true, nil
}

const gradleJacocoBlock = `
apply plugin: 'jacoco'


jacocoTestReport {
    dependsOn test
    reports {
        xml.enabled true
        csv.enabled true
    }
}

test {
    finalizedBy jacocoTestReport
}

jacoco {
    toolVersion = "0.8.7"
}
`

// GradlePatcher appends the jacoco plugin and report configuration unless any line already
// mentions jacoco.
type GradlePatcher struct{}

func (GradlePatcher) Patch(content []byte) ([]byte, bool, error) {
	for _, line := range strings.Split(string(content), "\n") {
		if strings.Contains(line, jacocoMarker) {
			return content, false, nil
		}
	}
	patched := make([]byte, 0, len(content)+len(gradleJacocoBlock))
	patched = append(patched, content...)
	patched = append(patched, gradleJacocoBlock...)
	return patched, true, nil
}
