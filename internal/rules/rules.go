// Package rules provides the prioritized pattern-matching style rules
// for Halo.
//
// Rules are stored as an ordered sequence; earlier rules win. The
// matcher is read-only during a pass: rule lifecycle (create, edit,
// reorder, delete) belongs to the configuration layer.
package rules

import (
	"strings"

	"github.com/halo-viz/halo-go/internal/style"
)

// Kind selects a rule's matching predicate.
type Kind string

const (
	// KindFolder matches node identifiers by path prefix.
	KindFolder Kind = "folder"
	// KindTag matches against the node's tag set.
	KindTag Kind = "tag"
	// KindFile matches the full identifier or its basename, with or
	// without the default extension.
	KindFile Kind = "file"
)

// DefaultExtension is appended when a file pattern omits it.
const DefaultExtension = ".md"

// TagLookup resolves a node identifier to its known tag set (inline and
// front-matter tags merged). A nil lookup or an empty result means "no
// tags".
type TagLookup func(nodeID string) []string

// StyleRule is one ordered pattern-based override. Index 0 in the rule
// sequence is the highest priority.
type StyleRule struct {
	ID      string `json:"id" yaml:"id"`
	Kind    Kind   `json:"kind" yaml:"kind"`
	Pattern string `json:"pattern" yaml:"pattern"`
	Enabled bool   `json:"enabled" yaml:"enabled"`

	Color *style.Color `json:"color,omitempty" yaml:"color,omitempty"`
	Shape *style.Shape `json:"shape,omitempty" yaml:"shape,omitempty"`
	Size  *float64     `json:"size,omitempty" yaml:"size,omitempty"`
}

// Override returns the rule's optional style fields.
func (r *StyleRule) Override() style.Override {
	return style.Override{Color: r.Color, Shape: r.Shape, Size: r.Size}
}

// Resolve walks the rule sequence in stored order and returns the first
// enabled matching rule's override. Disabled rules are skipped; a rule
// with an unrecognized kind matches nothing. The second return value
// reports whether any rule matched.
func Resolve(rules []StyleRule, nodeID string, tags TagLookup) (style.Override, bool) {
	for i := range rules {
		rule := &rules[i]
		if !rule.Enabled {
			continue
		}
		if rule.Matches(nodeID, tags) {
			return rule.Override(), true
		}
	}
	return style.Override{}, false
}

// Matches evaluates the rule's kind-specific predicate against one
// node identifier.
func (r *StyleRule) Matches(nodeID string, tags TagLookup) bool {
	if nodeID == "" || r.Pattern == "" {
		return false
	}
	switch r.Kind {
	case KindFolder:
		return matchFolder(r.Pattern, nodeID)
	case KindTag:
		return matchTag(r.Pattern, nodeID, tags)
	case KindFile:
		return matchFile(r.Pattern, nodeID)
	default:
		return false
	}
}

// matchFolder is a case-sensitive prefix match; patterns typically end
// with a path separator.
func matchFolder(pattern, nodeID string) bool {
	return strings.HasPrefix(nodeID, pattern)
}

// matchTag matches when the normalized pattern equals one of the node's
// tags or is a prefix of a hierarchical tag followed by "/".
func matchTag(pattern, nodeID string, tags TagLookup) bool {
	if tags == nil {
		return false
	}
	want := normalizeTag(pattern)
	if want == "#" {
		return false
	}
	for _, tag := range tags(nodeID) {
		got := normalizeTag(tag)
		if got == want || strings.HasPrefix(got, want+"/") {
			return true
		}
	}
	return false
}

// matchFile checks the four equivalent forms: full identifier, full
// identifier with the default extension, basename, and basename with
// the default extension.
func matchFile(pattern, nodeID string) bool {
	if nodeID == pattern || nodeID == pattern+DefaultExtension {
		return true
	}
	base := basename(nodeID)
	return base == pattern || base == pattern+DefaultExtension
}

// normalizeTag trims whitespace and guarantees a leading "#".
func normalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}

// basename returns the portion of the identifier after the last path
// separator.
func basename(nodeID string) string {
	if idx := strings.LastIndex(nodeID, "/"); idx >= 0 {
		return nodeID[idx+1:]
	}
	return nodeID
}
