package config

import (
	"github.com/spf13/viper"
	"github.com/wardenhq/warden/core/operation"
)

const alertTargetTypeStdout = "stdout"

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// Approval defaults
	v.SetDefault("approval.mode", "standard")
	v.SetDefault("approval.timeout_seconds", 120)
	v.SetDefault("approval.max_bypass_attempts", 3)
	v.SetDefault("approval.require_confirmation_for_critical", true)

	// Policy defaults
	v.SetDefault("policy.excluded_paths", []string{})
	v.SetDefault("policy.excluded_extensions", defaultExcludedExtensions())
	v.SetDefault("policy.dangerous_paths", operation.DefaultDangerousPaths())

	// Display defaults
	v.SetDefault("display.show_preview", true)
	v.SetDefault("display.max_preview_length", operation.DefaultMaxPreviewLength)
	v.SetDefault("display.show_impact_analysis", true)
	v.SetDefault("display.use_countdown", true)
	v.SetDefault("display.colors", "auto")

	// Storage defaults
	v.SetDefault("storage.path", "") // Empty means use platform default
	v.SetDefault("storage.retention_days", 90)

	// Alerts defaults
	v.SetDefault("alerts.targets", []AlertTargetConfig{
		{
			Name:    alertTargetTypeStdout,
			Type:    alertTargetTypeStdout,
			Enabled: true,
		},
	})
}

// defaultExcludedExtensions returns the extensions exempt from approval.
// These cover files whose mutation carries no execution or credential risk.
func defaultExcludedExtensions() []string {
	return []string{
		".md",
		".txt",
		".log",
	}
}
