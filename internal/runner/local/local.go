// Package local runs tools as child processes on the machine stepper itself runs on.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	stdout io.Writer
	stderr io.Writer
}

// New returns a local engine that streams tool output to the given writers.
func New(stdout, stderr io.Writer) Orchestrator {
	return Orchestrator{
		stdout: stdout,
		stderr: stderr,
	}
}

func (orch *Orchestrator) Run(ctx context.Context, cmd runner.Command) error {
	process := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	process.Dir = cmd.Dir
	process.Env = append(os.Environ(), cmd.EnvList()...)
	process.Stdout = orch.stdout
	process.Stderr = orch.stderr

	log.Debug().Str("tool", cmd.Name).Strs("args", cmd.Args).Strs("env", cmd.EnvKeys()).
		Str("dir", cmd.Dir).Msg("local: starting tool")

	err := process.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return &runner.ExitError{
				Command: cmd.Name,
				Code:    int64(exitErr.ExitCode()),
			}
		}

		if ctx.Err() != nil {
			return fmt.Errorf("%s was stopped: %w", cmd.Name, ctx.Err())
		}

		return fmt.Errorf("could not run %s: %w", cmd.Name, err)
	}

	log.Debug().Str("tool", cmd.Name).Msg("local: tool finished")

	return nil
}
