package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/seriesflow/pkg/sferrors"
)

// LoadFile loads a Config from a YAML file. Values of the form ${VAR} are
// substituted from the environment before parsing. Missing and zero fields
// keep the conventional defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is controlled by the caller
	if err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to read config file").
			WithDetail("path", path)
	}

	cfg := New()
	content := substituteEnvVars(string(data))
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, sferrors.Wrap(err, sferrors.ErrorTypeConfig, "failed to parse config YAML").
			WithDetail("path", path)
	}

	if cfg.TargetColumn == "" {
		cfg.TargetColumn = DefaultTargetColumn
	}
	if cfg.TimestampColumn == "" {
		cfg.TimestampColumn = DefaultTimestampColumn
	}
	if cfg.ItemIDColumn == "" {
		cfg.ItemIDColumn = DefaultItemIDColumn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveFile writes a Config to a YAML file.
func SaveFile(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return sferrors.Wrap(err, sferrors.ErrorTypeConfig, "failed to marshal config YAML")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec
		return sferrors.Wrap(err, sferrors.ErrorTypeFile, "failed to write config file").
			WithDetail("path", path)
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			break
		}
		end += start

		varName := content[start+2 : end]
		envValue := os.Getenv(varName)
		content = content[:start] + envValue + content[end+1:]
	}
	return content
}
