// Package docker builds and pushes images through the docker daemon API.
package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/clintjedwards/stepper/internal/imaging"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/registry"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/archive"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	out       io.Writer
	connected bool
	*client.Client
}

// New prepares a client for the daemon described by the standard DOCKER_* environment variables. Build and push
// progress is written to out. The daemon is not contacted until the first login, build or push.
func New(out io.Writer) (Orchestrator, error) {
	docker, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return Orchestrator{}, err
	}

	return Orchestrator{
		out:    out,
		Client: docker,
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

func (orch *Orchestrator) Login(ctx context.Context, auth *models.RegistryAuth) error {
	err := orch.Connect(ctx)
	if err != nil {
		return err
	}

	resp, err := orch.RegistryLogin(ctx, auth.ToAuthConfig())
	if err != nil {
		return fmt.Errorf("%w: %s: %v", imaging.ErrAuthentication, auth.Registry, err)
	}

	log.Debug().Str("registry", auth.Registry).Str("user", auth.User).Str("status", resp.Status).
		Msg("docker: registry login succeeded")

	return nil
}

func (orch *Orchestrator) Build(ctx context.Context, request imaging.BuildRequest) error {
	err := orch.Connect(ctx)
	if err != nil {
		return err
	}

	buildContext, err := archive.TarWithOptions(request.ContextDir, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("could not package build context %q: %w", request.ContextDir, err)
	}
	defer buildContext.Close()

	counted := &countingReader{Reader: buildContext}

	options := types.ImageBuildOptions{
		Tags:        []string{request.Tag},
		Dockerfile:  request.Dockerfile,
		Remove:      true,
		ForceRemove: true,
	}

	if request.Auth != nil {
		options.AuthConfigs = map[string]registry.AuthConfig{
			request.Auth.Registry: request.Auth.ToAuthConfig(),
		}
	}

	resp, err := orch.ImageBuild(ctx, counted, options)
	if err != nil {
		return fmt.Errorf("%w: %v", imaging.ErrBuildFailed, err)
	}
	defer resp.Body.Close()

	err = jsonmessage.DisplayJSONMessagesStream(resp.Body, orch.out, 0, false, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", imaging.ErrBuildFailed, err)
	}

	log.Debug().Str("tag", request.Tag).Str("context_size", humanize.Bytes(counted.count)).
		Msg("docker: image built")

	return nil
}

func (orch *Orchestrator) Push(ctx context.Context, request imaging.PushRequest) error {
	err := orch.Connect(ctx)
	if err != nil {
		return err
	}

	options := types.ImagePushOptions{}

	if request.Auth != nil {
		encodedAuth, err := request.Auth.Encode()
		if err != nil {
			return err
		}
		options.RegistryAuth = encodedAuth
	}

	progress, err := orch.ImagePush(ctx, request.Tag, options)
	if err != nil {
		return fmt.Errorf("%w: %v", imaging.ErrPushFailed, err)
	}
	defer progress.Close()

	err = jsonmessage.DisplayJSONMessagesStream(progress, orch.out, 0, false, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", imaging.ErrPushFailed, err)
	}

	return nil
}

// countingReader records how many bytes of build context were sent to the daemon.
type countingReader struct {
	io.Reader
	count uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.count += uint64(n)
	return n, err
}
