package config

import (
	"path/filepath"
	"strings"
)

// PathPolicy answers whether a target path is exempt from approval.
// Exclusion is checked before the approval mode and, when it matches,
// always bypasses approval regardless of mode or risk.
type PathPolicy struct {
	excludedPaths      []string
	excludedExtensions map[string]struct{}
}

// NewPathPolicy creates a PathPolicy with normalized patterns.
// Paths are cleaned and slash-normalized; extensions are lower-cased and
// given a leading dot if missing.
func NewPathPolicy(excludedPaths, excludedExtensions []string) *PathPolicy {
	normalized := make([]string, 0, len(excludedPaths))
	for _, p := range excludedPaths {
		if p == "" {
			continue
		}
		normalized = append(normalized, normalizePath(p))
	}

	extensions := make(map[string]struct{}, len(excludedExtensions))
	for _, ext := range excludedExtensions {
		if ext == "" {
			continue
		}
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extensions[ext] = struct{}{}
	}

	return &PathPolicy{
		excludedPaths:      normalized,
		excludedExtensions: extensions,
	}
}

// IsPathExcluded returns true if the path starts with any excluded path
// or its extension is in the excluded-extension set.
func (p *PathPolicy) IsPathExcluded(path string) bool {
	if path == "" {
		return false
	}

	normalized := normalizePath(path)

	for _, prefix := range p.excludedPaths {
		if strings.HasPrefix(normalized, prefix) {
			return true
		}
	}

	if ext := strings.ToLower(filepath.Ext(normalized)); ext != "" {
		if _, ok := p.excludedExtensions[ext]; ok {
			return true
		}
	}

	return false
}

// ExcludedPaths returns the normalized excluded path prefixes.
func (p *PathPolicy) ExcludedPaths() []string {
	return p.excludedPaths
}

// normalizePath cleans a path and normalizes separators to forward slashes.
func normalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}
