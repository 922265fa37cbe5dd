package models

import "fmt"

// BuildContext is the information the calling CI system supplies for a single pipeline run.
// It is read once at startup and handed to every step.
type BuildContext struct {
	// Number is the monotonically increasing run number; used as the image tag.
	Number int64 `envconfig:"BUILD_NUMBER"`

	// JobName is the name of the job being run; used as the default analysis project.
	JobName string `envconfig:"JOB_NAME"`

	// Workspace is the directory all steps run in.
	Workspace string `envconfig:"WORKSPACE"`

	// ScannerHome is the installation directory of the code analysis scanner.
	ScannerHome string `envconfig:"SONAR_SCANNER_HOME"`
}

// ImageTag returns the exact reference an image is built and pushed under. The image name is used as given.
func ImageTag(imageName string, buildNumber int64) string {
	return fmt.Sprintf("%s:%d", imageName, buildNumber)
}
