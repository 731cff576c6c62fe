package operation

import (
	"path/filepath"
	"regexp"
	"strings"
)

// redactedMarker replaces matched secrets in previews and descriptions.
const redactedMarker = "[REDACTED]"

// hiddenPreview replaces the entire preview for sensitive targets.
const hiddenPreview = "(content hidden: sensitive file)"

// Redactor keeps secrets out of operation descriptions and previews. It
// suppresses previews entirely for sensitive targets and scrubs inline
// credential-looking strings from everything else before the text reaches
// the approval prompt or the audit trail.
type Redactor struct {
	sensitivePatterns []string
	redactPatterns    []*regexp.Regexp
}

// NewRedactor creates a Redactor from sensitive-path glob patterns and
// redaction regex patterns.
func NewRedactor(sensitivePatterns []string, redactPatterns []string) (*Redactor, error) {
	compiled := make([]*regexp.Regexp, 0, len(redactPatterns))
	for _, pattern := range redactPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}

		compiled = append(compiled, re)
	}

	return &Redactor{
		sensitivePatterns: sensitivePatterns,
		redactPatterns:    compiled,
	}, nil
}

// DefaultRedactor returns a Redactor with the built-in pattern sets.
func DefaultRedactor() *Redactor {
	r, err := NewRedactor(DefaultSensitivePatterns(), DefaultRedactPatterns())
	if err != nil {
		// The built-in patterns are compile-time constants.
		panic(err)
	}
	return r
}

// DefaultSensitivePatterns returns the default list of sensitive path patterns.
func DefaultSensitivePatterns() []string {
	return []string{
		"**/.env",
		"**/.env.*",
		"**/secrets/**",
		"**/*.pem",
		"**/*.key",
		"**/*.p12",
		"**/*password*",
		"**/*secret*",
		"**/*credential*",
		"**/.git/config",
		"**/.ssh/**",
		"**/.aws/**",
		"**/.npmrc",
		"**/.pypirc",
	}
}

// DefaultRedactPatterns returns the default list of redaction regex patterns.
func DefaultRedactPatterns() []string {
	return []string{
		`(?i)password[=:]\S+`,
		`(?i)api[_-]?key[=:]\S+`,
		`(?i)token[=:]\S+`,
		`(?i)secret[=:]\S+`,
		`(?i)bearer\s+\S+`,
		`(?i)aws_access_key_id[=:]\S+`,
		`(?i)aws_secret_access_key[=:]\S+`,
	}
}

// IsSensitiveTarget checks if the given path matches any sensitive pattern.
func (r *Redactor) IsSensitiveTarget(path string) bool {
	normalizedPath := filepath.ToSlash(path)

	for _, pattern := range r.sensitivePatterns {
		if matchGlob(pattern, normalizedPath) {
			return true
		}
	}

	return false
}

// Redact applies redaction patterns to the text, replacing matches with
// [REDACTED].
func (r *Redactor) Redact(text string) string {
	result := text
	for _, re := range r.redactPatterns {
		result = re.ReplaceAllString(result, redactedMarker)
	}

	return result
}

// matchGlob performs a simple glob pattern match.
// Supports ** for any path segment and * for any characters within a segment.
func matchGlob(pattern, path string) bool {
	pattern = filepath.ToSlash(pattern)

	if strings.HasPrefix(pattern, "**/") {
		suffix := pattern[3:]
		if strings.HasSuffix(path, "/"+suffix) || path == suffix {
			return true
		}
		if matchSimple(suffix, filepath.Base(path)) {
			return true
		}
		// Directory patterns like **/secrets/**
		if strings.HasSuffix(suffix, "/**") {
			dirPart := suffix[:len(suffix)-3]
			if strings.Contains(path, "/"+dirPart+"/") {
				return true
			}
		}
	}

	return matchSimple(pattern, path)
}

// matchSimple performs simple glob matching with * wildcards.
func matchSimple(pattern, str string) bool {
	regexPattern := "^"
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*':
			if i+1 < len(pattern) && pattern[i+1] == '*' {
				regexPattern += ".*"
				i++
			} else {
				regexPattern += "[^/]*"
			}
		case '?':
			regexPattern += "."
		case '.', '+', '(', ')', '[', ']', '{', '}', '^', '$', '|', '\\':
			regexPattern += "\\" + string(pattern[i])
		default:
			regexPattern += string(pattern[i])
		}
	}
	regexPattern += "$"

	re, err := regexp.Compile(regexPattern)
	if err != nil {
		return false
	}
	return re.MatchString(str)
}
