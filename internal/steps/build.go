package steps

import (
	"context"

	"github.com/clintjedwards/stepper/internal/buildtool"
	"github.com/clintjedwards/stepper/internal/runner"
	"github.com/rs/zerolog/log"
)

// RunTests invokes the test target of the workspace's build tool.
func (s *Steps) RunTests(ctx context.Context) error {
	return s.runBuildTarget(ctx, buildtool.TargetTest)
}

// Compile invokes the compile target of the workspace's build tool.
func (s *Steps) Compile(ctx context.Context) error {
	return s.runBuildTarget(ctx, buildtool.TargetCompile)
}

func (s *Steps) runBuildTarget(ctx context.Context, target buildtool.Target) error {
	tool, err := buildtool.Detect(s.workspace, buildtool.Kind(s.config.BuildTool.Kind), s.config.BuildTool.UseWrapper)
	if err != nil {
		return err
	}

	logger := log.Info().Str("tool", string(tool.Kind)).Bool("wrapper", tool.Wrapper).Str("target", string(target))
	if tool.Kind == buildtool.KindMaven {
		if project, err := buildtool.MavenProject(s.workspace); err == nil {
			logger = logger.Str("artifact", project.ProjectKey()).Str("version", project.Version)
		}
	}
	logger.Msg("running build target")

	return s.runner.Run(ctx, runner.Command{
		Name: tool.Executable(),
		Args: tool.Args(target),
		Dir:  s.workspace,
	})
}
