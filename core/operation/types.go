// Package operation provides the operation model and risk classification
// for actions an agent wants to perform.
package operation

import "fmt"

// Type represents the kind of operation an agent requested.
type Type string

const (
	// TypeFileRead indicates a file read.
	TypeFileRead Type = "file_read"
	// TypeFileList indicates a directory listing.
	TypeFileList Type = "file_list"
	// TypeFileCreate indicates creation of a new file.
	TypeFileCreate Type = "file_create"
	// TypeFileWrite indicates a write/modification of an existing file.
	TypeFileWrite Type = "file_write"
	// TypeFileDelete indicates a file deletion.
	TypeFileDelete Type = "file_delete"
	// TypeCommandExec indicates execution of a shell command.
	TypeCommandExec Type = "command_exec"
	// TypePackageInstall indicates installation of a package.
	TypePackageInstall Type = "package_install"
	// TypeSystemModify indicates a modification of system configuration.
	TypeSystemModify Type = "system_modify"
)

// typeDisplayNames is the single source of truth mapping each Type to its
// short display name. All lookups (DisplayName, IsValid, ParseType) are
// derived from this map.
var typeDisplayNames = map[Type]string{
	TypeFileRead:       "read",
	TypeFileList:       "list",
	TypeFileCreate:     "create",
	TypeFileWrite:      "write",
	TypeFileDelete:     "delete",
	TypeCommandExec:    "exec",
	TypePackageInstall: "install",
	TypeSystemModify:   "system",
}

var displayToType map[string]Type

func init() {
	displayToType = make(map[string]Type, len(typeDisplayNames))
	for t, dn := range typeDisplayNames {
		displayToType[dn] = t
	}
}

// String returns the string representation of a Type.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the Type is a known operation type.
func (t Type) IsValid() bool {
	_, ok := typeDisplayNames[t]
	return ok
}

// DisplayName returns a short human-readable name for the operation type.
func (t Type) DisplayName() string {
	if dn, ok := typeDisplayNames[t]; ok {
		return dn
	}
	return "unknown"
}

// ParseType parses a string into a Type, accepting both full names
// (e.g. "file_write") and display names (e.g. "write").
func ParseType(s string) (Type, error) {
	if t, ok := displayToType[s]; ok {
		return t, nil
	}
	t := Type(s)
	if t.IsValid() {
		return t, nil
	}
	return "", fmt.Errorf("invalid operation type: %q", s)
}

// RiskLevel is an ordinal classification of potential damage from an operation.
type RiskLevel int

const (
	// RiskLow indicates a non-destructive operation (reads, listings).
	RiskLow RiskLevel = iota
	// RiskHigh indicates a mutating operation (writes, deletes, command execution).
	RiskHigh
	// RiskCritical indicates a system-level operation (installs, system modification).
	RiskCritical
)

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	switch r {
	case RiskLow:
		return "low"
	case RiskHigh:
		return "high"
	case RiskCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsValid returns true if the RiskLevel is a recognized value.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskHigh, RiskCritical:
		return true
	default:
		return false
	}
}

// Escalate returns the risk level raised by exactly one step.
// Escalation is monotonic: Critical stays Critical.
func (r RiskLevel) Escalate() RiskLevel {
	switch r {
	case RiskLow:
		return RiskHigh
	case RiskHigh:
		return RiskCritical
	default:
		return RiskCritical
	}
}

// ParseRiskLevel parses a string into a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "low":
		return RiskLow, nil
	case "high":
		return RiskHigh, nil
	case "critical":
		return RiskCritical, nil
	default:
		return 0, fmt.Errorf("invalid risk level: %q", s)
	}
}

// baseRisk is the static risk assigned to each operation type before any
// target-based escalation.
var baseRisk = map[Type]RiskLevel{
	TypeFileRead:       RiskLow,
	TypeFileList:       RiskLow,
	TypeFileCreate:     RiskHigh,
	TypeFileWrite:      RiskHigh,
	TypeFileDelete:     RiskHigh,
	TypeCommandExec:    RiskHigh,
	TypePackageInstall: RiskCritical,
	TypeSystemModify:   RiskCritical,
}

// BaseRisk returns the static risk for the operation type.
// Unknown types are treated as Critical so they always require approval.
func (t Type) BaseRisk() RiskLevel {
	if r, ok := baseRisk[t]; ok {
		return r
	}
	return RiskCritical
}

// IsMutating returns true if the operation type changes state.
func (t Type) IsMutating() bool {
	return t.BaseRisk() > RiskLow
}
