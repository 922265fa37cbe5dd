// Package cl contains global variables used across the cli package. Yeah its probably a bad pattern
// but it works and removes us from dependency hell.
package cl

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clintjedwards/polyfmt"
	"github.com/clintjedwards/stepper/internal/app"
	"github.com/clintjedwards/stepper/internal/config"
	"github.com/clintjedwards/stepper/internal/models"
	"github.com/clintjedwards/stepper/internal/steps"
	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Harness is a structure for values that all commands need access to.
type Harness struct {
	Fmt    polyfmt.Formatter
	Config *config.Config
	Build  *models.BuildContext
}

// State holds values that aid in the lifetime of a command.
var State *Harness

// Init harness for command line functions, used to provide different functionality during the life of a command line run.
func InitState(cmd *cobra.Command) {
	// Including these in the pre run hook instead of in the enclosing/parent command definition
	// allows cobra to still print errors and usage for its own cli verifications, but
	// ignore our errors.
	cmd.SilenceUsage = true  // Don't print the usage if we get an upstream error
	cmd.SilenceErrors = true // Let us handle error printing ourselves

	State = &Harness{}

	// Writing a fresh config or listing variables should work even when the current config is broken.
	if cmd.Parent() != nil && cmd.Parent().Name() == "config" && (cmd.Name() == "init" || cmd.Name() == "printenv") {
		State.Config = config.DefaultConfig()
	} else {
		configPath, _ := cmd.Flags().GetString("config")
		State.NewConfig(configPath)
	}

	State.NewBuildContext()

	format, _ := cmd.Flags().GetString("format")
	if format != "" {
		State.Config.Format = format
	}

	overlayGlobalFlags(cmd)

	app.SetupLogging(State.Config.LogLevel, State.Config.PrettyLogging)
	State.NewFormatter()
}

// Flags are the last possible way to provide variables to the command line. Whatever was read from the config file
// and environment is overwritten by any flag the user explicitly passed.
func overlayGlobalFlags(cmd *cobra.Command) {
	noColor, _ := cmd.Flags().GetBool("no-color")
	if noColor {
		color.NoColor = true // turn off color globally
		State.Config.NoColor = noColor
	}

	workspace, _ := cmd.Flags().GetString("workspace")
	if workspace != "" {
		State.Config.Workspace = workspace
	}

	buildNumber, _ := cmd.Flags().GetInt64("build-number")
	if buildNumber != 0 {
		State.Build.Number = buildNumber
	}

	jobName, _ := cmd.Flags().GetString("job-name")
	if jobName != "" {
		State.Build.JobName = jobName
	}
}

func (s *Harness) NewFormatter() {
	clifmt, err := polyfmt.NewFormatter(polyfmt.Mode(s.Config.Format), polyfmt.DefaultOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("could not init output formatter")
	}

	s.Fmt = clifmt
}

func (s *Harness) NewConfig(configPath string) {
	conf, err := config.InitConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("error in config initialization")
	}

	s.Config = conf
}

func (s *Harness) NewBuildContext() {
	build, err := config.InitBuildContext()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read build context from environment")
	}

	s.Build = build
}

// RunStep connects the engines a step needs and runs it until it finishes or the process is interrupted.
// Step output is the output of the underlying tool so the formatter is closed before anything runs.
func (s *Harness) RunStep(name string, withImaging bool, step func(ctx context.Context, steps *steps.Steps) error) error {
	s.Fmt.Finish()

	stepper, err := app.NewSteps(s.Config, s.Build, withImaging)
	if err != nil {
		log.Error().Err(err).Str("step", name).Msg("could not initialize step")
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().Str("step", name).Int64("build", s.Build.Number).Str("workspace", stepper.Workspace()).
		Msg("starting step")

	start := time.Now()
	err = step(ctx, stepper)
	if err != nil {
		log.Error().Err(err).Str("step", name).Dur("elapsed", time.Since(start)).Msg("step failed")
		return err
	}

	log.Info().Str("step", name).Dur("elapsed", time.Since(start)).Msg("step finished")
	return nil
}
