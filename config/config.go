// Package config provides configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/wardenhq/warden/core/operation"
)

// ApprovalMode is the global policy knob controlling which risk levels
// require interactive confirmation.
type ApprovalMode string

const (
	// ModeStrict requires approval for everything except low-risk operations.
	ModeStrict ApprovalMode = "strict"
	// ModeStandard requires approval for high and critical risk operations.
	ModeStandard ApprovalMode = "standard"
	// ModeTrusted requires approval only for critical risk operations.
	ModeTrusted ApprovalMode = "trusted"
)

// String returns the string representation of the approval mode.
func (m ApprovalMode) String() string {
	return string(m)
}

// IsValid returns true if the mode is a recognized value.
func (m ApprovalMode) IsValid() bool {
	switch m {
	case ModeStrict, ModeStandard, ModeTrusted:
		return true
	default:
		return false
	}
}

// ColorMode represents the color output mode.
type ColorMode string

const (
	// ColorAuto automatically detects terminal support.
	ColorAuto ColorMode = "auto"
	// ColorAlways always uses colors.
	ColorAlways ColorMode = "always"
	// ColorNever never uses colors.
	ColorNever ColorMode = "never"
)

// ConfigurationError indicates the persisted config file exists but could
// not be parsed or failed validation. A missing file is not a
// ConfigurationError; it yields defaults.
type ConfigurationError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Config holds all configuration values.
type Config struct {
	Approval ApprovalConfig `mapstructure:"approval" yaml:"approval"`
	Policy   PolicyConfig   `mapstructure:"policy" yaml:"policy"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
	Storage  StorageConfig  `mapstructure:"storage" yaml:"storage"`
	Alerts   AlertsConfig   `mapstructure:"alerts" yaml:"alerts"`
}

// ApprovalConfig holds the approval decision settings.
type ApprovalConfig struct {
	Mode                           ApprovalMode `mapstructure:"mode" yaml:"mode"`
	TimeoutSeconds                 int          `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxBypassAttempts              int          `mapstructure:"max_bypass_attempts" yaml:"max_bypass_attempts"`
	RequireConfirmationForCritical bool         `mapstructure:"require_confirmation_for_critical" yaml:"require_confirmation_for_critical"`
}

// PolicyConfig holds path exemption and escalation patterns.
type PolicyConfig struct {
	ExcludedPaths      []string `mapstructure:"excluded_paths" yaml:"excluded_paths"`
	ExcludedExtensions []string `mapstructure:"excluded_extensions" yaml:"excluded_extensions"`
	DangerousPaths     []string `mapstructure:"dangerous_paths" yaml:"dangerous_paths"`
}

// DisplayConfig holds prompt display settings.
type DisplayConfig struct {
	ShowPreview        bool      `mapstructure:"show_preview" yaml:"show_preview"`
	MaxPreviewLength   int       `mapstructure:"max_preview_length" yaml:"max_preview_length"`
	ShowImpactAnalysis bool      `mapstructure:"show_impact_analysis" yaml:"show_impact_analysis"`
	UseCountdown       bool      `mapstructure:"use_countdown" yaml:"use_countdown"`
	Colors             ColorMode `mapstructure:"colors" yaml:"colors"`
}

// StorageConfig holds durable audit store settings.
type StorageConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

// AlertsConfig holds operator alert target settings.
type AlertsConfig struct {
	Targets []AlertTargetConfig `mapstructure:"targets" yaml:"targets"`
}

// AlertTargetConfig holds settings for a single alert target.
type AlertTargetConfig struct {
	Name    string `mapstructure:"name" yaml:"name"`
	Type    string `mapstructure:"type" yaml:"type"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
}

// Paths holds resolved filesystem paths.
type Paths struct {
	ConfigFile   string
	ConfigDir    string
	DataDir      string
	DatabaseFile string
}

// Load loads configuration from the given path or default locations.
// A missing file yields defaults; a file that exists but is malformed or
// fails validation yields a ConfigurationError.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")

	resolvedPath := configPath
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		paths := ResolvePaths()
		resolvedPath = paths.ConfigFile

		v.SetConfigName("config")
		v.AddConfigPath(paths.ConfigDir)
	}

	v.SetEnvPrefix("WARDEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, &ConfigurationError{Path: resolvedPath, Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Path: resolvedPath, Err: err}
	}

	if err := validate(&cfg); err != nil {
		return nil, &ConfigurationError{Path: resolvedPath, Err: err}
	}

	return &cfg, nil
}

// Default returns a Config with all default values.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	_ = v.Unmarshal(&cfg)

	return &cfg
}

// ResolvePaths returns the resolved filesystem paths for the current platform.
func ResolvePaths() *Paths {
	configDir := getConfigDir()
	dataDir := getDataDir()

	return &Paths{
		ConfigFile:   filepath.Join(configDir, "config.yaml"),
		ConfigDir:    configDir,
		DataDir:      dataDir,
		DatabaseFile: filepath.Join(dataDir, "audit.db"),
	}
}

// IsApprovalRequired returns whether the given risk level requires
// interactive approval under the configured mode. Any unrecognized mode
// requires approval (fail-safe default).
func (c *Config) IsApprovalRequired(risk operation.RiskLevel) bool {
	switch c.Approval.Mode {
	case ModeStrict:
		return risk != operation.RiskLow
	case ModeStandard:
		return risk >= operation.RiskHigh
	case ModeTrusted:
		return risk >= operation.RiskCritical
	default:
		return true
	}
}

// TimeoutFor returns the interactive confirmation timeout for a risk level.
// Critical operations get twice the configured timeout.
func (c *Config) TimeoutFor(risk operation.RiskLevel) time.Duration {
	timeout := time.Duration(c.Approval.TimeoutSeconds) * time.Second
	if risk >= operation.RiskCritical {
		return 2 * timeout
	}
	return timeout
}

// PathPolicy builds the normalized path exemption policy from this config.
func (c *Config) PathPolicy() *PathPolicy {
	return NewPathPolicy(c.Policy.ExcludedPaths, c.Policy.ExcludedExtensions)
}

// GetDatabasePath returns the resolved database path from config or default.
func (c *Config) GetDatabasePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}

	paths := ResolvePaths()
	return paths.DatabaseFile
}

// ShouldUseColors returns true if colors should be used based on config and terminal.
func (c *Config) ShouldUseColors() bool {
	switch c.Display.Colors {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		// Auto: check if stdout is a terminal
		fileInfo, _ := os.Stdout.Stat()
		return (fileInfo.Mode() & os.ModeCharDevice) != 0
	}
}
