package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultModelType is the prediction mode used when a request does not name one.
const DefaultModelType = "ensemble"

// DefaultArtifactName is the persisted model file expected next to the binary.
const DefaultArtifactName = "crop_models.json"

// Config holds all application configuration.
type Config struct {
	ModelPath      string `yaml:"model_path"`
	LogLevel       string `yaml:"log_level"`
	MetricsGateway string `yaml:"metrics_gateway"`
	MetricsJob     string `yaml:"metrics_job"`
}

func defaults() Config {
	return Config{
		LogLevel:   "info",
		MetricsJob: "cropbridge",
	}
}

// Load reads configuration from a YAML file (if path is non-empty),
// then applies environment variable overrides. An empty path returns
// defaults + env overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse yaml: %w", err)
		}
	}

	if v := os.Getenv("CROPBRIDGE_MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("CROPBRIDGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("CROPBRIDGE_METRICS_GATEWAY"); v != "" {
		cfg.MetricsGateway = v
	}
	if v := os.Getenv("CROPBRIDGE_METRICS_JOB"); v != "" {
		cfg.MetricsJob = v
	}

	return cfg, nil
}

// DefaultModelPath resolves the artifact location co-located with the binary.
// Falls back to the working directory when the executable path is unknown.
func DefaultModelPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultArtifactName
	}
	return filepath.Join(filepath.Dir(exe), DefaultArtifactName)
}
