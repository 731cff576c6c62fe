package config

import (
	"fmt"
)

// validate checks the configuration for errors.
func validate(cfg *Config) error {
	if !cfg.Approval.Mode.IsValid() {
		return fmt.Errorf("invalid approval.mode: %s (must be strict, standard, or trusted)", cfg.Approval.Mode)
	}

	if cfg.Approval.TimeoutSeconds <= 0 {
		return fmt.Errorf("approval.timeout_seconds must be positive")
	}

	if cfg.Approval.MaxBypassAttempts <= 0 {
		return fmt.Errorf("approval.max_bypass_attempts must be positive")
	}

	if cfg.Display.MaxPreviewLength < 0 {
		return fmt.Errorf("display.max_preview_length must be non-negative")
	}

	if !isValidColorMode(cfg.Display.Colors) {
		return fmt.Errorf("invalid display.colors: %s (must be auto, always, or never)", cfg.Display.Colors)
	}

	if cfg.Storage.RetentionDays < 0 {
		return fmt.Errorf("storage.retention_days must be non-negative")
	}

	if err := validateAlertTargets(cfg.Alerts.Targets); err != nil {
		return err
	}

	return nil
}

// isValidColorMode returns true if the given mode is valid.
func isValidColorMode(mode ColorMode) bool {
	switch mode {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// validateAlertTargets checks alert target definitions for errors.
func validateAlertTargets(targets []AlertTargetConfig) error {
	seen := make(map[string]struct{}, len(targets))
	for i, target := range targets {
		if target.Name == "" {
			return fmt.Errorf("alerts.targets[%d]: name must not be empty", i)
		}
		if target.Type == "" {
			return fmt.Errorf("alerts.targets[%d]: type must not be empty", i)
		}
		if _, ok := seen[target.Name]; ok {
			return fmt.Errorf("alerts.targets[%d]: duplicate target name %q", i, target.Name)
		}
		seen[target.Name] = struct{}{}
	}
	return nil
}
