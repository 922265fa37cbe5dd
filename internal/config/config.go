// Package config controls how stepper reads its settings. Settings come from (in order of precedence, lowest first)
// built-in defaults, an HCL configuration file, STEPPER_ prefixed environment variables and finally command line flags.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"
	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix        = "STEPPER_"
	envNestDelimiter = "__"

	defaultEncryptionKey = "changemechangemechangemechangeme"
)

// SampleConfig is a fully commented configuration file that documents every setting.
//
//go:embed sampleConfig.hcl
var SampleConfig string

// Config is the complete configuration for all steps.
type Config struct {
	// Log level affects the verbosity of stepper's own logs. Output of the tools stepper runs is never filtered.
	LogLevel string `koanf:"log_level"`

	// PrettyLogging turns on human readable logs instead of JSON.
	PrettyLogging bool `koanf:"pretty_logging"`

	// Output format for credential and config commands; accepted values are 'pretty', 'json', 'silent'.
	Format string `koanf:"format"`

	NoColor bool `koanf:"no_color"`

	// Workspace overrides the directory all steps run in. When empty the WORKSPACE variable
	// supplied by the CI system is used, and failing that the current directory.
	Workspace string `koanf:"workspace"`

	Checkout    Checkout    `koanf:"checkout"`
	BuildTool   BuildTool   `koanf:"build_tool"`
	Analysis    Analysis    `koanf:"analysis"`
	Registry    Registry    `koanf:"registry"`
	Deploy      Deploy      `koanf:"deploy"`
	SecretStore SecretStore `koanf:"secret_store"`
	Runner      Runner      `koanf:"runner"`
}

// DefaultConfig returns a pre-populated configuration struct that is used as the base for super imposing user
// configuration settings.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:      "info",
		PrettyLogging: true,
		Format:        "pretty",
		Checkout:      DefaultCheckoutConfig(),
		BuildTool:     DefaultBuildToolConfig(),
		Analysis:      DefaultAnalysisConfig(),
		Registry:      DefaultRegistryConfig(),
		Deploy:        DefaultDeployConfig(),
		SecretStore:   DefaultSecretStoreConfig(),
		Runner:        DefaultRunnerConfig(),
	}
}

// Checkout controls the fixed repository the checkout step clones.
type Checkout struct {
	URL    string `koanf:"url"`
	Branch string `koanf:"branch"`

	// CredentialID references a credential used for HTTP authentication. Leave empty for anonymous clones.
	CredentialID string `koanf:"credential_id"`

	// Directory the repository is cloned into, relative to the workspace.
	Directory string `koanf:"directory"`
}

func DefaultCheckoutConfig() Checkout {
	return Checkout{
		Branch:    "main",
		Directory: ".",
	}
}

// BuildTool controls which build tool the test and compile steps invoke.
type BuildTool struct {
	// Kind is one of: auto, gradle, maven. Auto inspects the workspace for build files.
	Kind string `koanf:"kind"`

	// UseWrapper prefers ./gradlew or ./mvnw when the project ships one.
	UseWrapper bool `koanf:"use_wrapper"`
}

func DefaultBuildToolConfig() BuildTool {
	return BuildTool{
		Kind:       "auto",
		UseWrapper: true,
	}
}

// Analysis describes the code quality server and the project the scanner reports to.
type Analysis struct {
	// ServerName is the name of the analysis environment; exported to the scanner as SONAR_CONFIG_NAME.
	ServerName   string `koanf:"server_name"`
	HostURL      string `koanf:"host_url"`
	CredentialID string `koanf:"credential_id"`

	// ProjectName and ProjectKey default to the job name when empty.
	ProjectName string `koanf:"project_name"`
	ProjectKey  string `koanf:"project_key"`
	Sources     string `koanf:"sources"`

	// ScannerHome is the scanner installation directory. SONAR_SCANNER_HOME is used when empty and
	// failing that the scanner is looked up on PATH.
	ScannerHome string `koanf:"scanner_home"`
}

func DefaultAnalysisConfig() Analysis {
	return Analysis{
		ServerName:   "sonarqube",
		HostURL:      "http://localhost:9000",
		CredentialID: "sonar-token",
		Sources:      ".",
	}
}

// Registry controls how images are built and where they are pushed.
type Registry struct {
	Dockerfile string `koanf:"dockerfile"`

	// ContextDir is the build context, relative to the workspace.
	ContextDir string `koanf:"context_dir"`

	// Server overrides the registry address derived from the image name.
	Server string `koanf:"server"`
}

func DefaultRegistryConfig() Registry {
	return Registry{
		Dockerfile: "Dockerfile",
		ContextDir: ".",
	}
}

// Deploy controls manifest rewriting and how manifests are applied to the cluster.
type Deploy struct {
	// ManifestDir holds every manifest that is applied, relative to the workspace.
	ManifestDir string `koanf:"manifest_dir"`

	// ManifestFile is the manifest, relative to ManifestDir, whose image line is rewritten.
	ManifestFile string `koanf:"manifest_file"`

	InsecureSkipTLSVerify bool `koanf:"insecure_skip_tls_verify"`

	// StrictImageRewrite fails the deploy when the manifest has no image line to rewrite.
	// When false the manifest is applied unchanged and a warning is logged.
	StrictImageRewrite bool `koanf:"strict_image_rewrite"`

	// ScratchDir holds the short lived kubeconfig, relative to the workspace.
	ScratchDir string `koanf:"scratch_dir"`
}

func DefaultDeployConfig() Deploy {
	return Deploy{
		ManifestDir:        ".",
		ManifestFile:       "deployment.yaml",
		StrictImageRewrite: true,
		ScratchDir:         ".stepper",
	}
}

// Get the final configuration.
// This involves correctly finding and ordering different possible paths for the configuration file:
//
//  1. The function is intended to be called with paths gleaned from the --config flag in the cli.
//  2. If the user does not use the --config flag or the path does not exist,
//     then we default to a few hard coded config path locations.
//  3. Then try to see if the user has set an envvar for the config file, which overrides
//     all previous config file paths.
//  4. Finally, whatever configuration file path is found first is the processed.
//
// Whether or not we use the configuration file we then search the environment for all environment variables:
//   - Environment variables are loaded after the config file and therefore overwrite any conflicting keys.
//   - All configuration that goes into a configuration file can also be used as an environment variable.
func InitConfig(flagPath string) (*Config, error) {
	homeDir, _ := os.UserHomeDir()
	path := searchFilePaths(possibleConfigPaths(homeDir, flagPath)...)

	// envVars top all other entries so if its not empty we just insert it over the current path
	// regardless of if we found one.
	envPath := os.Getenv("STEPPER_CONFIG_PATH")
	if envPath != "" {
		path = envPath
	}

	return LoadFile(path)
}

// LoadFile reads configuration from defaults, the file at path (skipped when empty) and the environment, then
// validates the result.
func LoadFile(path string) (*Config, error) {
	config := DefaultConfig()
	configParser := koanf.New(".")

	if path != "" {
		err := configParser.Load(file.Provider(path), hcl.Parser(true))
		if err != nil {
			return nil, fmt.Errorf("could not load config file %q: %w", path, err)
		}
	}

	err := configParser.Load(env.Provider(envPrefix, envNestDelimiter, func(s string) string {
		newStr := strings.TrimPrefix(s, envPrefix)
		newStr = strings.ToLower(newStr)
		return newStr
	}), nil)
	if err != nil {
		return nil, err
	}

	err = configParser.Unmarshal("", config)
	if err != nil {
		return nil, err
	}

	err = config.validate()
	if err != nil {
		return nil, err
	}

	return config, nil
}

func possibleConfigPaths(homeDir, flagPath string) []string {
	return []string{
		flagPath,
		fmt.Sprintf("%s/%s", homeDir, ".stepper.hcl"),
		fmt.Sprintf("%s/%s/%s", homeDir, ".config", "stepper.hcl"),
	}
}

// searchFilePaths returns the first path in the list that exists on disk.
func searchFilePaths(paths ...string) string {
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

func (c *Config) validate() error {
	switch c.BuildTool.Kind {
	case "auto", "gradle", "maven":
	default:
		return fmt.Errorf("build_tool.kind %q not recognized; should be one of auto, gradle, maven", c.BuildTool.Kind)
	}

	switch c.Runner.Engine {
	case "local", "docker":
	default:
		return fmt.Errorf("runner.engine %q not recognized; should be one of local, docker", c.Runner.Engine)
	}

	switch c.SecretStore.Engine {
	case "env":
	case "sqlite":
		if len(c.SecretStore.Sqlite.EncryptionKey) != 32 {
			return fmt.Errorf("encryption_key must be a 32 character random string")
		}

		if c.SecretStore.Sqlite.EncryptionKey == defaultEncryptionKey {
			return fmt.Errorf("encryption_key cannot be left as default; must be changed to a 32 character random string")
		}
	default:
		return fmt.Errorf("secret_store.engine %q not recognized; should be one of env, sqlite", c.SecretStore.Engine)
	}

	return nil
}

// GetEnvVars returns every environment variable stepper reads configuration from.
func GetEnvVars() []string {
	config := DefaultConfig()
	output := []string{"STEPPER_CONFIG_PATH"}
	output = append(output, getEnvVarsFromStruct(envPrefix, structs.Fields(config))...)
	return output
}

func getEnvVarsFromStruct(prefix string, fields []*structs.Field) []string {
	vars := []string{}

	for _, field := range fields {
		tag := field.Tag("koanf")
		if tag == "" {
			continue
		}

		if field.Kind() == reflect.Struct {
			vars = append(vars, getEnvVarsFromStruct(prefix+strings.ToUpper(tag)+envNestDelimiter, field.Fields())...)
			continue
		}

		vars = append(vars, prefix+strings.ToUpper(tag))
	}

	return vars
}
