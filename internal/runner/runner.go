// Package runner defines the interface an execution engine must adhere to. An engine is the mechanism stepper uses to
// run the external tools (git, gradle, maven, sonar-scanner, kubectl) each step wraps.
//
// Commands are always argument arrays. Nothing is ever passed through a shell, so parameters cannot be used to
// inject extra commands and need no quoting.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

type EngineType string

const (
	// EngineLocal runs tools as child processes of stepper.
	EngineLocal EngineType = "local"

	// EngineDocker runs each tool in its own short lived container.
	EngineDocker EngineType = "docker"
)

// ErrNoToolImage is returned when the docker engine is asked to run a tool it has no image configured for.
var ErrNoToolImage = errors.New("runner: no container image configured for tool")

// ErrNoSuchImage is returned when the requested container image could not be pulled.
var ErrNoSuchImage = errors.New("runner: docker image not found")

// Command is a single invocation of an external tool.
type Command struct {
	Name string            // Executable name or path.
	Args []string          // Arguments, passed verbatim.
	Env  map[string]string // Extra environment variables scoped to this invocation only.
	Dir  string            // Working directory; must be absolute for the docker engine.
}

// EnvList returns the extra environment in KEY=VALUE form, sorted for stable output.
func (c Command) EnvList() []string {
	output := make([]string, 0, len(c.Env))
	for key, value := range c.Env {
		output = append(output, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(output)

	return output
}

// EnvKeys returns only the names of the extra environment variables; used for logging without leaking values.
func (c Command) EnvKeys() []string {
	output := make([]string, 0, len(c.Env))
	for key := range c.Env {
		output = append(output, key)
	}
	sort.Strings(output)

	return output
}

// ExitError is returned when a tool ran but exited unsuccessfully.
type ExitError struct {
	Command string
	Code    int64
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with code %d", e.Command, e.Code)
}

type Engine interface {
	// Run executes the command and blocks until it exits. A nonzero exit is returned as an *ExitError. Cancelling the
	// context stops the tool.
	Run(ctx context.Context, cmd Command) error
}
