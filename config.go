package satyls

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the .satyls.yaml configuration file.
type Config struct {
	Log        LogConfig        `yaml:"log,omitempty"`
	Completion CompletionConfig `yaml:"completion,omitempty"`
	Check      CheckConfig      `yaml:"check,omitempty"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is a zap level name ("debug", "info", "warn", "error").
	Level string `yaml:"level,omitempty"`
}

// CompletionConfig holds completion settings for the language server.
type CompletionConfig struct {
	// Resources is a YAML file with extra completion items, merged over the
	// built-in primitives. Relative paths resolve against the config file.
	Resources string `yaml:"resources,omitempty"`

	// Primitives toggles the built-in primitive list. Defaults to true.
	Primitives *bool `yaml:"primitives,omitempty"`
}

// CheckConfig holds settings for the check command.
type CheckConfig struct {
	// Extensions restricts which files are checked. Defaults to SourceExtensions.
	Extensions []string `yaml:"extensions,omitempty"`

	// Concurrency bounds parallel parsing. Zero means GOMAXPROCS.
	Concurrency int `yaml:"concurrency,omitempty"`
}

// PrimitivesEnabled reports whether built-in primitives should be offered.
func (c *CompletionConfig) PrimitivesEnabled() bool {
	return c.Primitives == nil || *c.Primitives
}

// CheckExtensions returns the configured extensions or the defaults.
func (c *Config) CheckExtensions() []string {
	if len(c.Check.Extensions) > 0 {
		return c.Check.Extensions
	}

	return SourceExtensions
}

// DefaultConfigNames are the filenames we search for.
var DefaultConfigNames = []string{".satyls.yaml", ".satyls.yml", "satyls.yaml"}

// LoadConfig finds and loads the nearest .satyls.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches for a config file starting from dir and walking up.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for dir := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(dir, name)

			_, err := os.Stat(path)
			if err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrConfigNotFound
		}

		dir = parent
	}
}

// LoadConfigFile loads a config from a specific path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Completion.Resources != "" && !filepath.IsAbs(cfg.Completion.Resources) {
		cfg.Completion.Resources = filepath.Join(filepath.Dir(path), cfg.Completion.Resources)
	}

	return &cfg, nil
}
