package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// RootPath is the directory scanned in batch mode.
	RootPath string `yaml:"root_path"`
	Workers  int    `yaml:"workers"`
	Verbose  bool   `yaml:"verbose"`

	// DBPath is the sqlite database holding scorecards and target overrides.
	DBPath string `yaml:"db_path"`

	// TargetsPath is an optional YAML or line based target override file.
	TargetsPath string `yaml:"targets_path"`

	// CompanyPages is how many leading pages are searched for company KPIs.
	CompanyPages int `yaml:"company_pages"`

	Address   string `yaml:"address"`
	OutputDir string `yaml:"output_dir"`

	// AllowedOrigins enables CORS on the API for these origins.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func DefaultConfig() *Config {
	return &Config{
		Workers:      runtime.NumCPU(),
		DBPath:       "scorecards.db",
		CompanyPages: 3,
		Address:      ":8080",
		OutputDir:    ".",
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	if c.CompanyPages < 1 {
		return fmt.Errorf("config: company_pages must be positive, got %d", c.CompanyPages)
	}
	return nil
}
