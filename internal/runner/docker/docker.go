// Package docker runs each tool in its own short lived container. The workspace is bind mounted into the container so
// that tools see the same files they would when run locally.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/rs/zerolog/log"
)

// WorkspaceMount is where the command's directory is mounted inside the container.
const WorkspaceMount = "/workspace"

type Orchestrator struct {
	images     map[string]string
	alwaysPull bool
	stdout     io.Writer
	stderr     io.Writer
	connected  bool
	*client.Client
}

// New prepares a client from the standard DOCKER_* environment variables. The daemon is not contacted until the
// first command runs.
func New(images map[string]string, alwaysPull bool, stdout, stderr io.Writer) (Orchestrator, error) {
	docker, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return Orchestrator{}, err
	}

	return Orchestrator{
		images:     images,
		alwaysPull: alwaysPull,
		stdout:     stdout,
		stderr:     stderr,
		Client:     docker,
	}, nil
}

// Connect checks the daemon is reachable. Only the first successful check talks to the daemon.
func (orch *Orchestrator) Connect(ctx context.Context) error {
	if orch.connected {
		return nil
	}

	_, err := orch.Info(ctx)
	if err != nil {
		return fmt.Errorf("could not connect to docker; is docker installed?")
	}

	orch.connected = true
	return nil
}

// toolName is the key used to look up the image for a command. Absolute paths (like an installed scanner) are
// reduced to their basename since the host installation does not exist inside the container.
func toolName(name string) string {
	return filepath.Base(name)
}

// entrypoint returns the executable the container should start. Paths relative to the workspace (./gradlew) are
// kept so they resolve against the mounted workspace; everything else is looked up on the image's PATH.
func entrypoint(name string) string {
	if strings.HasPrefix(name, "./") {
		return name
	}

	return toolName(name)
}

// ImageFor returns the image configured for a command or ErrNoToolImage.
func (orch *Orchestrator) ImageFor(cmd runner.Command) (string, error) {
	image, exists := orch.images[toolName(cmd.Name)]
	if !exists || image == "" {
		return "", fmt.Errorf("%q: %w", toolName(cmd.Name), runner.ErrNoToolImage)
	}

	return image, nil
}

func (orch *Orchestrator) pull(ctx context.Context, image string) error {
	if !orch.alwaysPull {
		_, _, err := orch.ImageInspectWithRaw(ctx, image)
		if err == nil {
			return nil
		}

		if !client.IsErrNotFound(err) {
			return err
		}
	}

	r, err := orch.ImagePull(ctx, image, types.ImagePullOptions{})
	if err != nil {
		if strings.Contains(err.Error(), "manifest unknown") {
			return fmt.Errorf("image '%s' not found or missing auth: %w", image, runner.ErrNoSuchImage)
		}
		return err
	}
	defer r.Close() // We don't care about pull logs only the errors

	_, _ = io.Copy(io.Discard, r) // We wait on the readcloser so that we know when it has finished

	return nil
}

func (orch *Orchestrator) Run(ctx context.Context, cmd runner.Command) error {
	image, err := orch.ImageFor(cmd)
	if err != nil {
		return err
	}

	if !filepath.IsAbs(cmd.Dir) {
		return fmt.Errorf("docker engine requires an absolute working directory; got %q", cmd.Dir)
	}

	err = orch.Connect(ctx)
	if err != nil {
		return err
	}

	err = orch.pull(ctx, image)
	if err != nil {
		return err
	}

	containerConfig := &container.Config{
		Image:        image,
		Entrypoint:   []string{entrypoint(cmd.Name)},
		Cmd:          cmd.Args,
		Env:          cmd.EnvList(),
		WorkingDir:   WorkspaceMount,
		AttachStdout: true,
		AttachStderr: true,
	}

	hostConfig := &container.HostConfig{
		Binds: []string{fmt.Sprintf("%s:%s", cmd.Dir, WorkspaceMount)},
	}

	createResp, err := orch.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return err
	}

	// Containers are removed regardless of outcome; a fresh context is used so that cancellation of the step
	// does not leave containers behind.
	defer func() {
		err := orch.ContainerRemove(context.Background(), createResp.ID, container.RemoveOptions{
			RemoveVolumes: true,
			Force:         true,
		})
		if err != nil {
			log.Debug().Err(err).Str("container", createResp.ID).Msg("docker: could not remove container")
		}
	}()

	log.Debug().Str("tool", cmd.Name).Str("image", image).Strs("args", cmd.Args).Strs("env", cmd.EnvKeys()).
		Str("container", createResp.ID).Msg("docker: starting tool")

	statusCh, errCh := orch.ContainerWait(ctx, createResp.ID, container.WaitConditionNextExit)

	err = orch.ContainerStart(ctx, createResp.ID, container.StartOptions{})
	if err != nil {
		return err
	}

	err = orch.streamLogs(ctx, createResp.ID)
	if err != nil {
		log.Error().Err(err).Msg("docker: could not demultiplex/parse log stream")
	}

	select {
	case err := <-errCh:
		if ctx.Err() != nil {
			return fmt.Errorf("%s was stopped: %w", cmd.Name, ctx.Err())
		}
		return err
	case status := <-statusCh:
		if status.Error != nil {
			return errors.New(status.Error.Message)
		}

		if status.StatusCode != 0 {
			return &runner.ExitError{
				Command: cmd.Name,
				Code:    status.StatusCode,
			}
		}
	}

	log.Debug().Str("tool", cmd.Name).Msg("docker: tool finished")

	return nil
}

// streamLogs follows the logs of a container until it exits.
//
// Docker multiplexes stdout and stderr into a single stream with a custom framing; StdCopy splits them back out so
// the tool output lands where it would when run locally.
func (orch *Orchestrator) streamLogs(ctx context.Context, id string) error {
	out, err := orch.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
	})
	if err != nil {
		return err
	}
	defer out.Close()

	byteCount, err := stdcopy.StdCopy(orch.stdout, orch.stderr, out)
	log.Debug().Int64("bytes written", byteCount).Msg("docker: finished demultiplexing")

	return err
}
