// Package cli is the user entry point into stepper. Every pipeline step is its own command so a CI job can call
// them in whatever order it needs.
package cli

import (
	"fmt"
	"strings"

	"github.com/clintjedwards/stepper/internal/cli/cl"
	"github.com/clintjedwards/stepper/internal/cli/config"
	"github.com/clintjedwards/stepper/internal/cli/credential"
	"github.com/clintjedwards/stepper/internal/cli/image"
	"github.com/clintjedwards/stepper/internal/cli/step"
	"github.com/spf13/cobra"
)

var appVersion = "0.0.dev_000000"

// RootCmd is the base of the cli
var RootCmd = &cobra.Command{
	Use:   "stepper",
	Short: "Stepper runs the individual steps of a build and deploy pipeline.",
	Long: `Stepper runs the individual steps of a build and deploy pipeline.

Each command is a single stateless step: check out the source, run the tests, compile, run static analysis,
build and push a container image and deploy it to a cluster. Steps run one external tool each and fail the job
when that tool fails. The calling CI system decides which steps run and in which order.

The build number, job name and workspace are read from BUILD_NUMBER, JOB_NAME and WORKSPACE as exported by
most CI systems and can be overridden with flags.
`,
	Version: " ", // We leave this added but empty so that the rootcmd will supply the -v flag
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cl.InitState(cmd)
	},
}

func init() {
	RootCmd.SetVersionTemplate(humanizeVersion(appVersion))
	RootCmd.AddCommand(step.CmdCheckout)
	RootCmd.AddCommand(step.CmdTest)
	RootCmd.AddCommand(step.CmdCompile)
	RootCmd.AddCommand(step.CmdAnalyze)
	RootCmd.AddCommand(step.CmdDeploy)
	RootCmd.AddCommand(image.CmdImage)
	RootCmd.AddCommand(credential.CmdCredential)
	RootCmd.AddCommand(config.CmdConfig)

	RootCmd.PersistentFlags().String("config", "", "configuration file path")
	RootCmd.PersistentFlags().String("format", "", "output format; accepted values are 'pretty', 'json', 'silent'")
	RootCmd.PersistentFlags().Bool("no-color", false, "disable color output")
	RootCmd.PersistentFlags().String("workspace", "", "directory steps run in; defaults to $WORKSPACE then the current directory")
	RootCmd.PersistentFlags().Int64("build-number", 0, "build number used to tag images; defaults to $BUILD_NUMBER")
	RootCmd.PersistentFlags().String("job-name", "", "job name used as the analysis project; defaults to $JOB_NAME")
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func humanizeVersion(version string) string {
	semver, hash, ok := strings.Cut(version, "_")
	if !ok {
		return ""
	}
	return fmt.Sprintf("stepper %s [%s]\n", semver, hash)
}
