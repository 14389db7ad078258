// Package config provides user configuration for Traction.
//
// Traction looks for a .traction.yaml file in the working directory,
// then in the home directory. If found, its settings override built-in
// defaults. The OpenAI key can also come from the environment.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const filename = ".traction.yaml"

// EnvAPIKey is the environment variable holding the generation API
// key; it wins over the config file.
const EnvAPIKey = "TRACTION_OPENAI_API_KEY"

// Config holds Traction configuration.
type Config struct {
	// BaseURL is the sync server base URL.
	BaseURL string `yaml:"base_url"`

	// DataDir is where guest project data is stored locally.
	DataDir string `yaml:"data_dir"`

	// APIKey authenticates task generation requests.
	APIKey string `yaml:"api_key"`

	// Generator selects the generation backend ("openai" by default).
	Generator string `yaml:"generator"`

	// Instructions replaces the default generation prompt preamble.
	// The response-format contract is always appended.
	Instructions string `yaml:"instructions"`
}

// Load reads .traction.yaml from dir. Returns a zero-value Config
// (not an error) if the file doesn't exist. Environment variables are
// applied on top.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, filename)

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Fall through to env overrides with defaults.
	case err != nil:
		return Config{}, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, err
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	} else if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Generator == "" {
		cfg.Generator = "openai"
	}

	return cfg, nil
}

// DefaultDataDir returns the default guest data location under the
// user's home directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".traction"
	}
	return filepath.Join(home, ".traction", "data")
}
