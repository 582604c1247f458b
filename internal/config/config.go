// Package config handles discovery and loading of .dusts.yml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cloudfoundry/dusts/internal/backup"
	"github.com/cloudfoundry/dusts/internal/manifest"
)

// FileName is the config file searched for from the working directory upward.
const FileName = ".dusts.yml"

// EnvConfig names a config file when no --config flag is given.
const EnvConfig = "DUSTS_CONFIG"

// Config holds the dusts configuration.
type Config struct {
	// Path is the file the config was loaded from, empty for defaults.
	Path string `yaml:"-"`

	Merge   MergeConfig   `yaml:"merge"`
	Disable DisableConfig `yaml:"disable"`
	Backup  BackupConfig  `yaml:"backup"`
}

// MergeConfig configures merge-properties.
type MergeConfig struct {
	// Paths are copied from source to destination in order.
	Paths []string `yaml:"paths"`
}

// DisableConfig configures disable-job.
type DisableConfig struct {
	// Job is the name of the job to disable.
	Job string `yaml:"job"`

	// NetworkIndex selects the network binding whose static IPs are cleared.
	NetworkIndex int `yaml:"network_index"`
}

// BackupConfig configures backups taken before a manifest is overwritten.
type BackupConfig struct {
	Enabled bool `yaml:"enabled"`

	// Keep is the number of backups retained per manifest; 0 keeps all.
	Keep int `yaml:"keep"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Merge: MergeConfig{
			Paths: append([]string(nil), manifest.DefaultMergePaths...),
		},
		Disable: DisableConfig{
			Job:          manifest.DefaultJobName,
			NetworkIndex: manifest.DefaultNetworkIndex,
		},
		Backup: BackupConfig{
			Keep: backup.DefaultKeep,
		},
	}
}

// FindFile searches upward from dir for FileName.
// Returns an empty string if none is found.
func FindFile(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory: %w", err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// Load returns the configuration from path. An empty path falls back to
// $DUSTS_CONFIG, then to the nearest .dusts.yml above the working
// directory, then to Default.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}

	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		path, err = FindFile(cwd)
		if err != nil {
			return nil, err
		}
		if path == "" {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Path = path

	return cfg, nil
}

// Parse decodes config data over Default and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if len(c.Merge.Paths) == 0 {
		return errors.New("merge.paths must not be empty")
	}
	if _, err := manifest.ParsePaths(c.Merge.Paths); err != nil {
		return fmt.Errorf("merge.paths: %w", err)
	}
	if c.Disable.Job == "" {
		return errors.New("disable.job must not be empty")
	}
	if c.Disable.NetworkIndex < 0 {
		return fmt.Errorf("disable.network_index must not be negative, got %d", c.Disable.NetworkIndex)
	}
	if c.Backup.Keep < 0 {
		return fmt.Errorf("backup.keep must not be negative, got %d", c.Backup.Keep)
	}
	return nil
}
