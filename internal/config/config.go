package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/contentai/aws-remediator/internal/errors"
)

// SecretBinding ties a key in the local environment file to the
// Secrets Manager secret that should receive its value.
type SecretBinding struct {
	EnvKey   string `yaml:"env_key"`
	SecretID string `yaml:"secret_id"`
}

// Settings holds everything the remediation run needs to know about the
// target deployment. Defaults match the production content-ai-agent stack;
// any field can be overridden via a YAML settings file or CLI flags.
type Settings struct {
	Region           string          `yaml:"region"`
	AccountID        string          `yaml:"account_id"` // empty: discovered via STS at runtime
	Secrets          []SecretBinding `yaml:"secrets"`
	ExecutionRole    string          `yaml:"execution_role"`
	PolicyName       string          `yaml:"policy_name"`
	Cluster          string          `yaml:"cluster"`
	Service          string          `yaml:"service"`
	LogGroup         string          `yaml:"log_group"`
	LogLines         int32           `yaml:"log_lines"`
	StabilizeTimeout time.Duration   `yaml:"-"`
	HealthCheckURLs  []string        `yaml:"health_check_urls"`
}

// Default returns the settings for the production content-ai-agent deployment.
func Default() Settings {
	return Settings{
		Region: "us-east-1",
		Secrets: []SecretBinding{
			{EnvKey: "RAPIDAPI_KEY", SecretID: "content-ai-agent/rapidapi-key"},
			{EnvKey: "SERP_API_KEY", SecretID: "content-ai-agent/serp-api-key"},
			{EnvKey: "YOUTUBE_API_KEY", SecretID: "content-ai-agent/youtube-api-key"},
		},
		ExecutionRole:    "content-ai-agent-execution-role",
		PolicyName:       "content-ai-agent-secrets-read",
		Cluster:          "content-ai-agent-cluster",
		Service:          "content-ai-agent-service",
		LogGroup:         "/ecs/content-ai-agent",
		LogLines:         50,
		StabilizeTimeout: 10 * time.Minute,
		HealthCheckURLs: []string{
			"http://content-ai-agent.example.com/health",
			"http://content-ai-agent.example.com/",
		},
	}
}

// fileSettings mirrors Settings for YAML decoding; durations are strings
// like "10m" in the file.
type fileSettings struct {
	Settings         `yaml:",inline"`
	StabilizeTimeout string `yaml:"stabilize_timeout"`
}

// LoadSettings overlays a YAML settings file onto the defaults. Fields
// absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	settings := Default()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	overlay := fileSettings{Settings: settings}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return Settings{}, fmt.Errorf("%w: %s: %v", apperrors.ErrSettingsFileInvalid, path, err)
	}

	settings = overlay.Settings
	if overlay.StabilizeTimeout != "" {
		timeout, err := time.ParseDuration(overlay.StabilizeTimeout)
		if err != nil {
			return Settings{}, fmt.Errorf("%w: invalid stabilize_timeout %q", apperrors.ErrSettingsFileInvalid, overlay.StabilizeTimeout)
		}
		settings.StabilizeTimeout = timeout
	}

	if len(settings.Secrets) == 0 {
		return Settings{}, apperrors.ErrNoSecretsConfigured
	}

	return settings, nil
}

// EnvFileSource loads secret values from a local env file on demand.
type EnvFileSource struct {
	Path     string
	Bindings []SecretBinding
}

func (s EnvFileSource) Load() ([]SecretValue, error) {
	return LoadSecretValues(s.Path, s.Bindings)
}

// SecretValue pairs a secret identifier with the value it should be set to.
type SecretValue struct {
	SecretID string
	Value    string
}

// LoadSecretValues reads the env file (the same key-value format the
// application's .env uses) and resolves a value for every configured
// binding. Keys missing from the file fall back to the process
// environment. Any missing or empty value fails the whole load - nothing
// is returned so no partial update can start from a bad config.
func LoadSecretValues(envFile string, bindings []SecretBinding) ([]SecretValue, error) {
	if len(bindings) == 0 {
		return nil, apperrors.ErrNoSecretsConfigured
	}

	fileValues, err := godotenv.Read(envFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrEnvFileMissing, envFile)
		}
		return nil, fmt.Errorf("failed to parse env file %s: %w", envFile, err)
	}

	values := make([]SecretValue, 0, len(bindings))
	for _, binding := range bindings {
		value := fileValues[binding.EnvKey]
		if value == "" {
			value = os.Getenv(binding.EnvKey)
		}
		if value == "" {
			return nil, fmt.Errorf("%w: %s (in %s)", apperrors.ErrMissingSecretValue, binding.EnvKey, envFile)
		}
		values = append(values, SecretValue{SecretID: binding.SecretID, Value: value})
	}

	return values, nil
}
