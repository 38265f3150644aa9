package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the optional single-file configuration used by the
// tocscan CLI. Fields left empty fall back to the environment.
type FileConfig struct {
	Oracle struct {
		Provider string `yaml:"provider"`
		Model    string `yaml:"model"`
		Key      string `yaml:"key"`
		BaseURL  string `yaml:"baseURL"`
	} `yaml:"oracle"`

	MaxScanPages  int    `yaml:"maxScanPages"`
	OracleTimeout string `yaml:"oracleTimeout"` // Go duration string, e.g. "45s"
}

// LoadFile reads a YAML config file and overlays it onto the
// environment-derived Config.
func LoadFile(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return base, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.Oracle.Provider != "" {
		base.OracleProvider = fc.Oracle.Provider
	}
	if fc.Oracle.Key != "" {
		switch base.OracleProvider {
		case "openai":
			base.OpenAIAPIKey = fc.Oracle.Key
		default:
			base.AnthropicAPIKey = fc.Oracle.Key
		}
	}
	if fc.Oracle.Model != "" {
		switch base.OracleProvider {
		case "openai":
			base.OpenAIModel = fc.Oracle.Model
		default:
			base.AnthropicModel = fc.Oracle.Model
		}
	}
	if fc.Oracle.BaseURL != "" {
		base.OpenAIBaseURL = fc.Oracle.BaseURL
	}
	if fc.MaxScanPages > 0 {
		base.MaxScanPages = fc.MaxScanPages
	}
	if fc.OracleTimeout != "" {
		d, err := time.ParseDuration(fc.OracleTimeout)
		if err != nil {
			return base, fmt.Errorf("parse oracleTimeout: %w", err)
		}
		if d > 0 {
			base.OracleTimeout = d
		}
	}
	return base, nil
}
