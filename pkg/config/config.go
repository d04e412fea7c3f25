package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/waterjuice/hexmirror/pkg/manifest"
)

// Config defines configuration for the hexmirror CLI.
type Config struct {
	Root      string          `yaml:"root"`
	APIBase   string          `yaml:"api_base"`
	RepoBase  string          `yaml:"repo_base"`
	Downloads int             `yaml:"downloads"`
	Pages     int             `yaml:"pages"`
	Manifests []manifest.Spec `yaml:"manifests"`
}

func Default() Config {
	return Config{
		Root:      "repo.hex.pm",
		APIBase:   "https://hex.pm/api",
		RepoBase:  "https://repo.hex.pm",
		Downloads: 100,
		Pages:     25,
		Manifests: []manifest.Spec{
			{Name: "hex-1.x", Prefix: "hex", Suffix: ".ez"},
		},
	}
}

// LoadFromFile loads configuration from a YAML file, on top
// of the defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf(
			"read config file: %w", err,
		)
	}

	var fc Config
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf(
			"parse config file: %w", err,
		)
	}
	return Default().Merge(fc), nil
}

// LoadFromEnv applies HEXMIRROR_* environment overrides.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("HEXMIRROR_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("HEXMIRROR_API"); v != "" {
		c.APIBase = v
	}
	if v := os.Getenv("HEXMIRROR_REPO"); v != "" {
		c.RepoBase = v
	}
	if v := os.Getenv("HEXMIRROR_DOWNLOADS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf(
				"parse HEXMIRROR_DOWNLOADS: %w", err,
			)
		}
		c.Downloads = n
	}
	if v := os.Getenv("HEXMIRROR_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf(
				"parse HEXMIRROR_PAGES: %w", err,
			)
		}
		c.Pages = n
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("config: root is required")
	}
	if c.APIBase == "" {
		return errors.New("config: api_base is required")
	}
	if c.RepoBase == "" {
		return errors.New("config: repo_base is required")
	}
	if c.Downloads <= 0 {
		return errors.New(
			"config: downloads must be positive",
		)
	}
	if c.Pages <= 0 {
		return errors.New("config: pages must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new
// Config. Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Root != "" {
		c.Root = override.Root
	}
	if override.APIBase != "" {
		c.APIBase = override.APIBase
	}
	if override.RepoBase != "" {
		c.RepoBase = override.RepoBase
	}
	if override.Downloads != 0 {
		c.Downloads = override.Downloads
	}
	if override.Pages != 0 {
		c.Pages = override.Pages
	}
	if len(override.Manifests) != 0 {
		c.Manifests = override.Manifests
	}
	return c
}
