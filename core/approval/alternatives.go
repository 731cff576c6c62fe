package approval

import (
	"strings"

	"github.com/wardenhq/warden/core/operation"
)

// Alternative is a labeled alternative action offered when an operation
// is rejected.
type Alternative struct {
	// Label is the short menu label.
	Label string `json:"label"`
	// Description explains what the alternative does.
	Description string `json:"description"`
}

// alternativeTemplates maps operation types to their suggestion menus.
// This is presentation data, not decision logic; replacing a template
// never changes what the gate approves.
var alternativeTemplates = map[operation.Type][]Alternative{
	operation.TypeFileCreate: {
		{Label: "preview", Description: "preview the content without creating the file"},
		{Label: "different location/name", Description: "create the file under a different location or name"},
		{Label: "safe location", Description: "write to an approved scratch directory instead"},
	},
	operation.TypeFileWrite: {
		{Label: "preview", Description: "preview the change as a diff without writing"},
		{Label: "different location/name", Description: "write to a different location or name"},
		{Label: "safe location", Description: "write a copy to an approved scratch directory"},
	},
	operation.TypeFileDelete: {
		{Label: "rename", Description: "rename the file instead of deleting it"},
		{Label: "move to trash", Description: "move the file to a recoverable trash location"},
	},
	operation.TypeCommandExec: {
		{Label: "dry run", Description: "run the command with a dry-run flag if it supports one"},
		{Label: "show command", Description: "display the exact command without executing it"},
	},
}

// AlternativesFor returns the suggestion menu for an operation type, or
// nil when no alternatives apply.
func AlternativesFor(opType operation.Type) []Alternative {
	return alternativeTemplates[opType]
}

// appendSuggestions extends a denial reason with the offered alternatives.
func appendSuggestions(reason string, alternatives []Alternative) string {
	if len(alternatives) == 0 {
		return reason
	}

	parts := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		parts = append(parts, alt.Label)
	}

	return reason + " (alternatives: " + strings.Join(parts, ", ") + ")"
}

// alternativeLabels returns just the labels, for response details.
func alternativeLabels(alternatives []Alternative) []string {
	labels := make([]string, 0, len(alternatives))
	for _, alt := range alternatives {
		labels = append(labels, alt.Label)
	}
	return labels
}
