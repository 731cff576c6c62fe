package operation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	// descriptionExcerptLen is the maximum content excerpt length embedded
	// in operation descriptions.
	descriptionExcerptLen = 50
	// DefaultMaxPreviewLength is the preview cap used when the analyzer is
	// constructed without an explicit limit.
	DefaultMaxPreviewLength = 200
)

// Analyzer classifies operation requests into risk levels and produces
// human-readable descriptions and content previews.
type Analyzer struct {
	dangerousPaths   []string
	maxPreviewLength int
	redactor         *Redactor
}

// NewAnalyzer creates an Analyzer with the given dangerous-path patterns.
// A target substring-matching any pattern escalates the operation's risk by
// exactly one level.
func NewAnalyzer(dangerousPaths []string, maxPreviewLength int) *Analyzer {
	if maxPreviewLength <= 0 {
		maxPreviewLength = DefaultMaxPreviewLength
	}
	return &Analyzer{
		dangerousPaths:   dangerousPaths,
		maxPreviewLength: maxPreviewLength,
		redactor:         DefaultRedactor(),
	}
}

// DefaultDangerousPaths returns the default list of dangerous path patterns.
// Matching is by substring, so directory prefixes and credential file names
// both work.
func DefaultDangerousPaths() []string {
	return []string{
		"/etc/",
		"/usr/",
		"/bin/",
		"/sbin/",
		"/boot/",
		"/sys/",
		"/proc/",
		"/var/",
		"System32",
		".ssh",
		".aws",
		".gnupg",
		".env",
		".git/config",
		"id_rsa",
		"credentials",
		"authorized_keys",
		"passwd",
		"shadow",
	}
}

// Analyze validates the request parameters and produces a classified Info.
// It fails with a ValidationError if opType is empty or unknown, params is
// nil, or params["target"] is missing or empty.
func (a *Analyzer) Analyze(opType Type, params map[string]any) (*Info, error) {
	if opType == "" {
		return nil, &ValidationError{Field: "operation_type", Reason: "must not be empty"}
	}
	if !opType.IsValid() {
		return nil, &ValidationError{Field: "operation_type", Reason: fmt.Sprintf("unknown type %q", opType)}
	}
	if params == nil {
		return nil, &ValidationError{Field: "params", Reason: "must be a map"}
	}

	target := stringParam(params, "target")
	if target == "" {
		return nil, &ValidationError{Field: "target", Reason: "missing or empty"}
	}

	risk := a.ClassifyRisk(opType, target)
	description := a.generateDescription(opType, target, params)

	info, err := NewInfo(opType, target, description, risk, params)
	if err != nil {
		return nil, err
	}

	if preview := a.generatePreview(opType, target, params); preview != "" {
		info = info.WithPreview(preview)
	}

	return info, nil
}

// ClassifyRisk returns the risk level for an operation against a target.
// It is a pure function of (opType, target, dangerous-path patterns): the
// static base risk per type, escalated exactly one level when the target
// matches any dangerous-path pattern.
func (a *Analyzer) ClassifyRisk(opType Type, target string) RiskLevel {
	risk := opType.BaseRisk()
	if a.IsDangerousTarget(target) {
		risk = risk.Escalate()
	}
	return risk
}

// IsDangerousTarget returns true if the target substring-matches any
// configured dangerous-path pattern.
func (a *Analyzer) IsDangerousTarget(target string) bool {
	for _, pattern := range a.dangerousPaths {
		if pattern != "" && strings.Contains(target, pattern) {
			return true
		}
	}
	return false
}

// descriptionTemplates maps each operation type to its description template.
// The first verb slot is interpolated with the target.
var descriptionTemplates = map[Type]string{
	TypeFileRead:       "Read file %s",
	TypeFileList:       "List directory %s",
	TypeFileCreate:     "Create file %s",
	TypeFileWrite:      "Write to file %s",
	TypeFileDelete:     "Delete file %s",
	TypeCommandExec:    "Execute command: %s",
	TypePackageInstall: "Install package %s",
	TypeSystemModify:   "Modify system configuration: %s",
}

// generateDescription produces the per-type description, with a truncated
// content excerpt appended when content is present.
func (a *Analyzer) generateDescription(opType Type, target string, params map[string]any) string {
	tpl, ok := descriptionTemplates[opType]
	if !ok {
		tpl = "Perform " + string(opType) + " on %s"
	}
	description := fmt.Sprintf(tpl, target)

	if content := stringParam(params, "content"); content != "" {
		excerpt := a.redactor.Redact(content)
		if len(excerpt) > descriptionExcerptLen {
			excerpt = truncateOnRuneBoundary(excerpt, descriptionExcerptLen) + "..."
		}
		description += fmt.Sprintf(" (content: %s)", excerpt)
	}

	return description
}

// generatePreview builds the optional preview shown to the user.
// Create/write operations preview the content, capped at maxPreviewLength.
// Write operations that carry the current content produce a unified diff
// instead. Execute-type operations preview the command line.
func (a *Analyzer) generatePreview(opType Type, target string, params map[string]any) string {
	switch opType {
	case TypeFileCreate, TypeFileWrite:
		content := stringParam(params, "content")
		if content == "" {
			return ""
		}

		if a.redactor.IsSensitiveTarget(target) {
			return hiddenPreview
		}

		if old := stringParam(params, "old_content"); old != "" && opType == TypeFileWrite {
			if diff := unifiedDiff(target, old, content); diff != "" {
				return a.truncatePreview(a.redactor.Redact(diff))
			}
		}

		return a.truncatePreview(a.redactor.Redact(content))

	case TypeCommandExec, TypePackageInstall, TypeSystemModify:
		command := stringParam(params, "command")
		if command == "" {
			command = target
		}
		return "command: " + a.redactor.Redact(command)

	default:
		return ""
	}
}

// truncatePreview caps a preview at maxPreviewLength with a trailing marker.
func (a *Analyzer) truncatePreview(preview string) string {
	if len(preview) <= a.maxPreviewLength {
		return preview
	}
	return truncateOnRuneBoundary(preview, a.maxPreviewLength) + "... (truncated)"
}

// truncateOnRuneBoundary cuts s at the largest rune boundary not exceeding
// max bytes, so multibyte content is never split mid-rune.
func truncateOnRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// unifiedDiff renders a unified diff between the current and proposed
// content of a file.
func unifiedDiff(target, oldContent, newContent string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: target + " (current)",
		ToFile:   target + " (proposed)",
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return diff
}

// stringParam returns the string value for a key, or "" if absent or not a string.
func stringParam(params map[string]any, key string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
