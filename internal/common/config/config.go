package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrPortsPathNotFound     = errors.New("ports repository path does not exist")
	ErrPortsInvalidStructure = errors.New("ports repository structure is invalid")
)

// DefaultVcpkgCommand is the package manager executable used when none is configured
const DefaultVcpkgCommand = "vcpkg"

// Config represents the user configuration
type Config struct {
	Ports      PortsConfig `yaml:"ports"`
	Git        GitConfig   `yaml:"git"`
	Vcpkg      VcpkgConfig `yaml:"vcpkg"`
	ScratchDir string      `yaml:"scratch_dir,omitempty"`
}

// PortsConfig holds ports repository settings
type PortsConfig struct {
	Path   string `yaml:"path"`
	Remote string `yaml:"remote"`
}

// GitConfig holds the commit author; empty values leave it to git
type GitConfig struct {
	User  string `yaml:"user"`
	Email string `yaml:"email"`
}

// VcpkgConfig holds package manager settings
type VcpkgConfig struct {
	Command string `yaml:"command"`
}

// ConfigPaths returns all possible config file paths in priority order
// 1. $XDG_CONFIG_HOME/portup/config.yaml (default ~/.config)
// 2. ~/.portup/config.yaml
func ConfigPaths() ([]string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	return []string{
		filepath.Join(xdgConfig, "portup", "config.yaml"),
		filepath.Join(home, ".portup", "config.yaml"),
	}, nil
}

// FindConfigPath returns the first existing config file path.
// Returns the default path if no config file exists yet.
func FindConfigPath() (string, error) {
	paths, err := ConfigPaths()
	if err != nil {
		return "", err
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return paths[0], nil
}

// Default returns the configuration written on first use
func Default() *Config {
	return &Config{
		Ports: PortsConfig{
			Remote: "origin",
		},
		Vcpkg: VcpkgConfig{
			Command: DefaultVcpkgCommand,
		},
	}
}

// Load reads configuration from the first available config file
func Load() (*Config, error) {
	configPath, err := FindConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom reads configuration from a specific file path.
// A missing file is created with the default configuration.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if saveErr := cfg.SaveTo(path); saveErr != nil {
				return nil, saveErr
			}
			return cfg, nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveTo writes configuration to a specific file path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolvePortsPath returns the absolute, validated ports repository path.
// flagPath wins over the configured path; with neither, the current directory is used.
func (c *Config) ResolvePortsPath(flagPath string) (string, error) {
	path := flagPath
	if path == "" {
		path = c.Ports.Path
	}
	if path == "" {
		path = "."
	}

	path, err := expandHome(path)
	if err != nil {
		return "", err
	}
	path, err = filepath.Abs(path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrPortsPathNotFound
		}
		return "", err
	}
	if !info.IsDir() {
		return "", ErrPortsPathNotFound
	}

	if result := ValidatePortsStructure(path); !result.Valid {
		return "", &PortsValidationError{Path: path, Errors: result.Errors}
	}

	return path, nil
}

// Author returns the configured commit author, or empty strings when incomplete
func (c *Config) Author() (user, email string) {
	if c.Git.User == "" || c.Git.Email == "" {
		return "", ""
	}
	return c.Git.User, c.Git.Email
}

// VcpkgCommand returns the package manager executable
func (c *Config) VcpkgCommand() string {
	if c.Vcpkg.Command == "" {
		return DefaultVcpkgCommand
	}
	return c.Vcpkg.Command
}

// CacheDir returns the default scratch directory, honoring XDG_CACHE_HOME
func CacheDir() (string, error) {
	xdgCache := os.Getenv("XDG_CACHE_HOME")
	if xdgCache == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		xdgCache = filepath.Join(home, ".cache")
	}
	return filepath.Join(xdgCache, "portup"), nil
}

// ScratchPath returns the scratch directory for clones and the install test.
// It defaults to CacheDir, outside the ports work tree. Relative paths are
// resolved against portsPath.
func (c *Config) ScratchPath(portsPath string) (string, error) {
	if c.ScratchDir == "" {
		return CacheDir()
	}

	path, err := expandHome(c.ScratchDir)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(portsPath, path)
	}
	return filepath.Clean(path), nil
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// PortsValidationResult contains ports repository validation results
type PortsValidationResult struct {
	Valid  bool
	Errors []string
}

// PortsValidationError represents a ports repository validation failure
type PortsValidationError struct {
	Path   string
	Errors []string
}

func (e *PortsValidationError) Error() string {
	msg := "ports repository validation failed for " + e.Path + ":"
	for _, err := range e.Errors {
		msg += "\n  - " + err
	}
	msg += "\n\nSuggestion: pass the repository root with --path or set ports.path in the config"
	return msg
}

// Unwrap lets errors.Is match ErrPortsInvalidStructure
func (e *PortsValidationError) Unwrap() error {
	return ErrPortsInvalidStructure
}

// ValidatePortsStructure checks that path looks like a vcpkg ports repository:
// a ports/ directory and versions/baseline.json
func ValidatePortsStructure(path string) *PortsValidationResult {
	result := &PortsValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	if info, err := os.Stat(filepath.Join(path, "ports")); err != nil || !info.IsDir() {
		result.Valid = false
		result.Errors = append(result.Errors, "missing ports/ directory")
	}

	if _, err := os.Stat(filepath.Join(path, "versions", "baseline.json")); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, "missing versions/baseline.json")
	}

	return result
}
