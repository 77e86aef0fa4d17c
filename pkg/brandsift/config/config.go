package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/brandsift/pkg/brandsift/internalerr"
)

// Target describes the brand being filtered for.
type Target struct {
	// Maker is the maker-side brand name used during rancode refinement.
	Maker string `yaml:"maker"`
	// Brand is the product-side brand name used during rancode refinement.
	Brand string `yaml:"brand"`
	// Catalogue is the catalogue brand column matched against entries.
	Catalogue string `yaml:"catalogue"`
}

// Paths lists the dictionary and data files a run depends on.
type Paths struct {
	Tokens    string `yaml:"tokens"`
	Overrides string `yaml:"overrides"`
	NGWords   string `yaml:"ngwords"`
	Catalogue string `yaml:"catalogue"`
	// Store is an optional sqlite database path for persisting token stats.
	Store string `yaml:"store"`
}

// Config is the top-level run configuration.
type Config struct {
	Target Target `yaml:"target"`
	Paths  Paths  `yaml:"paths"`
	Debug  bool   `yaml:"debug"`
}

// Load reads a run configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}

	return &cfg, nil
}
