// Package image contains the commands that build and push container images.
package image

import (
	"github.com/spf13/cobra"
)

var CmdImage = &cobra.Command{
	Use:   "image",
	Short: "Build and push container images",
	Long: `Build and push container images.

Images are always tagged <image_name>:<build_number>. The registry is taken from the image name unless
registry.server is set.`,
}
