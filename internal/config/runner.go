package config

// Runner defines how external tools are executed.
type Runner struct {
	// The engine used to run tools.
	// possible values are: local, docker
	Engine string `koanf:"engine"`
	Docker Docker `koanf:"docker"`
}

func DefaultRunnerConfig() Runner {
	return Runner{
		Engine: "local",
		Docker: DefaultDockerConfig(),
	}
}

type Docker struct {
	// Even if the image exists locally attempt to pull from the repository. This is useful if your tool images
	// don't use proper tagging or versioning.
	AlwaysPull bool `koanf:"always_pull"`

	// Images maps a tool name (the basename of the executable) to the container image it runs in.
	Images map[string]string `koanf:"images"`
}

func DefaultDockerConfig() Docker {
	return Docker{
		AlwaysPull: false,
		Images: map[string]string{
			"git":           "docker.io/alpine/git:latest",
			"gradle":        "docker.io/library/gradle:8-jdk17",
			"gradlew":       "docker.io/library/eclipse-temurin:17-jdk",
			"mvn":           "docker.io/library/maven:3-eclipse-temurin-17",
			"mvnw":          "docker.io/library/eclipse-temurin:17-jdk",
			"sonar-scanner": "docker.io/sonarsource/sonar-scanner-cli:latest",
			"kubectl":       "docker.io/bitnami/kubectl:latest",
		},
	}
}
