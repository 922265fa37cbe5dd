// Package buildtool figures out which JVM build tool a workspace uses and how to invoke its lifecycle targets.
package buildtool

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vifraa/gopom"
)

type Kind string

const (
	KindAuto   Kind = "auto"
	KindGradle Kind = "gradle"
	KindMaven  Kind = "maven"
)

type Target string

const (
	TargetTest    Target = "test"
	TargetCompile Target = "compile"
)

// ErrNoBuildTool is returned when auto detection finds no recognizable build file.
var ErrNoBuildTool = errors.New("buildtool: could not detect a build tool in workspace")

// Tool is a resolved build tool for a specific workspace.
type Tool struct {
	Kind    Kind
	Wrapper bool // Whether the project's own wrapper script is used.
}

// Detect returns the tool a workspace should be built with. When kind is auto the workspace is inspected: a gradle
// wrapper or build script selects gradle, a pom.xml selects maven.
func Detect(dir string, kind Kind, useWrapper bool) (Tool, error) {
	switch kind {
	case KindGradle:
		return Tool{Kind: KindGradle, Wrapper: useWrapper && exists(dir, "gradlew")}, nil
	case KindMaven:
		return Tool{Kind: KindMaven, Wrapper: useWrapper && exists(dir, "mvnw")}, nil
	case KindAuto, "":
	default:
		return Tool{}, fmt.Errorf("build tool %q not recognized", kind)
	}

	switch {
	case exists(dir, "gradlew"), exists(dir, "build.gradle"), exists(dir, "build.gradle.kts"),
		exists(dir, "settings.gradle"), exists(dir, "settings.gradle.kts"):
		return Tool{Kind: KindGradle, Wrapper: useWrapper && exists(dir, "gradlew")}, nil
	case exists(dir, "pom.xml"), exists(dir, "mvnw"):
		return Tool{Kind: KindMaven, Wrapper: useWrapper && exists(dir, "mvnw")}, nil
	default:
		return Tool{}, fmt.Errorf("%w: %s", ErrNoBuildTool, dir)
	}
}

// Executable returns the program that should be run for this tool.
func (t Tool) Executable() string {
	switch t.Kind {
	case KindGradle:
		if t.Wrapper {
			return "./gradlew"
		}
		return "gradle"
	case KindMaven:
		if t.Wrapper {
			return "./mvnw"
		}
		return "mvn"
	default:
		return ""
	}
}

// Args returns the arguments that invoke the given lifecycle target. Compilation maps onto gradle's "classes" task,
// which compiles main sources for every JVM language plugin.
func (t Tool) Args(target Target) []string {
	switch t.Kind {
	case KindGradle:
		if target == TargetCompile {
			return []string{"classes"}
		}
		return []string{string(target)}
	case KindMaven:
		return []string{"--batch-mode", string(target)}
	default:
		return nil
	}
}

// MavenCoordinates are the identifying fields of a maven project.
type MavenCoordinates struct {
	GroupID    string
	ArtifactID string
	Version    string
	Name       string
}

// MavenProject reads the identifying fields of the pom.xml in dir.
func MavenProject(dir string) (MavenCoordinates, error) {
	project, err := gopom.Parse(filepath.Join(dir, "pom.xml"))
	if err != nil {
		return MavenCoordinates{}, err
	}

	coordinates := MavenCoordinates{
		GroupID:    deref(project.GroupID),
		ArtifactID: deref(project.ArtifactID),
		Version:    deref(project.Version),
		Name:       deref(project.Name),
	}

	// Child modules commonly inherit both from their parent.
	if project.Parent != nil {
		if coordinates.GroupID == "" {
			coordinates.GroupID = deref(project.Parent.GroupID)
		}
		if coordinates.Version == "" {
			coordinates.Version = deref(project.Parent.Version)
		}
	}

	return coordinates, nil
}

// ProjectKey is the key a code analysis server conventionally uses for a maven project.
func (m MavenCoordinates) ProjectKey() string {
	if m.GroupID == "" {
		return m.ArtifactID
	}

	return m.GroupID + ":" + m.ArtifactID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func exists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
