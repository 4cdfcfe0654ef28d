package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	dsberrors "github.com/Aman-CERP/dev-session-buddy/internal/errors"
	"github.com/Aman-CERP/dev-session-buddy/internal/preflight"
	"github.com/Aman-CERP/dev-session-buddy/internal/template"
)

const (
	// AppName is the directory name used under the XDG config home.
	AppName = "dev-session-buddy"

	// UserConfigFile is the file name of the user configuration.
	UserConfigFile = "config.yaml"

	// DefaultFramework is used when neither the user nor the command line picks one.
	DefaultFramework = "minimal"

	// DefaultLogLevel applies to the debug log file.
	DefaultLogLevel = "debug"
)

// Environment variables that override the user configuration.
const (
	EnvTemplatesRoot    = "DSB_TEMPLATES_ROOT"
	EnvDefaultFramework = "DSB_DEFAULT_FRAMEWORK"
	EnvDefaultPreset    = "DSB_DEFAULT_PRESET"
	EnvLogLevel         = "DSB_LOG_LEVEL"
)

// Config represents the dev-session-buddy tool settings.
type Config struct {
	Version   int             `yaml:"version" json:"version"`
	Templates TemplatesConfig `yaml:"templates" json:"templates"`
	Doctor    DoctorConfig    `yaml:"doctor" json:"doctor"`
	Logging   LoggingConfig   `yaml:"logging" json:"logging"`
}

// TemplatesConfig controls where templates come from and which one init/create pick.
type TemplatesConfig struct {
	// Root is the templates root directory. Empty uses the built-in templates.
	Root string `yaml:"root" json:"root"`

	// DefaultFramework is the template used when -f is not given.
	DefaultFramework string `yaml:"default_framework" json:"default_framework"`

	// DefaultPreset is the preset used when -p is not given.
	DefaultPreset string `yaml:"default_preset" json:"default_preset"`
}

// DoctorConfig lists the tools checked by the doctor command.
type DoctorConfig struct {
	Tools []preflight.Requirement `yaml:"tools" json:"tools"`
}

// LoggingConfig configures the debug log file.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Templates: TemplatesConfig{
			Root:             "", // Empty uses the built-in templates
			DefaultFramework: DefaultFramework,
			DefaultPreset:    string(template.DefaultPreset),
		},
		Doctor: DoctorConfig{
			Tools: preflight.DefaultRequirements(),
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}

// GetUserConfigPath returns the path to the user configuration file,
// $XDG_CONFIG_HOME/dev-session-buddy/config.yaml. When XDG_CONFIG_HOME is
// unset, xdg resolves it to ~/.config.
func GetUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, UserConfigFile)
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	configPath := GetUserConfigPath()
	if !fileExists(configPath) {
		return nil, nil
	}

	cfg := NewConfig()
	if err := cfg.loadYAML(configPath); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load resolves the effective configuration.
// It applies configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/dev-session-buddy/config.yaml)
//  3. Environment variables (DSB_*)
func Load() (*Config, error) {
	cfg := NewConfig()

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if userCfg != nil {
		cfg = userCfg
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile parses a configuration file without applying defaults.
// Keys missing from the file stay at their zero values.
func ReadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, dsberrors.ConfigLoadError(err).WithDetail("path", path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, dsberrors.ConfigLoadError(fmt.Errorf("parse %s: %w", path, err)).
			WithDetail("path", path)
	}
	return &cfg, nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	// Only keys present in the file override defaults
	parsed, err := ReadFile(path)
	if err != nil {
		return err
	}

	c.mergeWith(parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Templates.Root != "" {
		c.Templates.Root = other.Templates.Root
	}
	if other.Templates.DefaultFramework != "" {
		c.Templates.DefaultFramework = other.Templates.DefaultFramework
	}
	if other.Templates.DefaultPreset != "" {
		c.Templates.DefaultPreset = other.Templates.DefaultPreset
	}

	// A tool list replaces the defaults rather than extending them
	if len(other.Doctor.Tools) > 0 {
		c.Doctor.Tools = other.Doctor.Tools
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
}

// applyEnvOverrides applies DSB_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvTemplatesRoot); v != "" {
		c.Templates.Root = v
	}
	if v := os.Getenv(EnvDefaultFramework); v != "" {
		c.Templates.DefaultFramework = v
	}
	if v := os.Getenv(EnvDefaultPreset); v != "" {
		c.Templates.DefaultPreset = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// Validate checks the configuration for values the commands cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Templates.DefaultFramework) == "" {
		return dsberrors.ConfigError("templates.default_framework must not be empty", nil)
	}
	if strings.ContainsAny(c.Templates.DefaultFramework, `/\`) {
		return dsberrors.ConfigError(
			fmt.Sprintf("templates.default_framework must be a template name, got %s", c.Templates.DefaultFramework), nil)
	}

	if _, err := template.ParsePreset(c.Templates.DefaultPreset); err != nil {
		return dsberrors.ConfigError(
			fmt.Sprintf("templates.default_preset must be one of %s, got %s",
				strings.Join(template.Presets(), ", "), c.Templates.DefaultPreset), err)
	}

	for i, tool := range c.Doctor.Tools {
		if tool.Name == "" {
			return dsberrors.ConfigError(fmt.Sprintf("doctor.tools[%d].name must not be empty", i), nil)
		}
		if tool.Command == "" {
			return dsberrors.ConfigError(fmt.Sprintf("doctor.tools[%d].command must not be empty (%s)", i, tool.Name), nil)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return dsberrors.ConfigError(
			fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil)
	}

	return nil
}

// WriteYAML writes the configuration to the specified path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return dsberrors.ConfigSaveError(fmt.Errorf("marshal config: %w", err))
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return dsberrors.ConfigSaveError(err).WithDetail("path", path)
	}

	return nil
}

// MergeNewDefaults fills settings missing from an older config file.
// Returns a list of field names that were added with their default values.
func (c *Config) MergeNewDefaults() []string {
	defaults := NewConfig()
	var added []string

	if c.Version == 0 {
		c.Version = defaults.Version
		added = append(added, "version")
	}
	if c.Templates.DefaultFramework == "" {
		c.Templates.DefaultFramework = defaults.Templates.DefaultFramework
		added = append(added, "templates.default_framework")
	}
	if c.Templates.DefaultPreset == "" {
		c.Templates.DefaultPreset = defaults.Templates.DefaultPreset
		added = append(added, "templates.default_preset")
	}
	if len(c.Doctor.Tools) == 0 {
		c.Doctor.Tools = defaults.Doctor.Tools
		added = append(added, "doctor.tools")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
		added = append(added, "logging.level")
	}

	return added
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
