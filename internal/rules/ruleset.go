package rules

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/uuid"

	"github.com/halo-viz/halo-go/internal/style"
)

// ruleSetSchema validates rule-set documents before decoding. Unknown
// kinds are accepted here and match nothing at resolution time.
var ruleSetSchema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"rules": {
			Type: "array",
			Items: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"id":      {Type: "string"},
					"kind":    {Type: "string"},
					"pattern": {Type: "string"},
					"enabled": {Type: "boolean"},
					"color":   {Type: "string"},
					"shape":   {Type: "string"},
					"size":    {Type: "number"},
				},
				Required: []string{"kind", "pattern"},
			},
		},
	},
	Required: []string{"rules"},
}

// ruleSetDocument is the on-disk shape of a rule-set file. Enabled is
// a pointer on the wire so an omitted flag defaults to true.
type ruleSetDocument struct {
	Rules []ruleEntry `json:"rules"`
}

type ruleEntry struct {
	ID      string       `json:"id"`
	Kind    Kind         `json:"kind"`
	Pattern string       `json:"pattern"`
	Enabled *bool        `json:"enabled"`
	Color   *style.Color `json:"color"`
	Shape   *style.Shape `json:"shape"`
	Size    *float64     `json:"size"`
}

// LoadRuleSet reads a JSON rule-set document. The document is validated
// against the rule-set schema first so malformed files fail with a
// field-level error instead of a half-decoded rule list. Rules missing
// an ID are assigned one; a missing file yields an empty rule list.
func LoadRuleSet(path string) ([]StyleRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading rule set: %w", err)
	}
	return ParseRuleSet(data)
}

// ParseRuleSet validates and decodes a rule-set document.
func ParseRuleSet(data []byte) ([]StyleRule, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing rule set: %w", err)
	}

	resolved, err := ruleSetSchema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving rule set schema: %w", err)
	}
	if err := resolved.Validate(raw); err != nil {
		return nil, fmt.Errorf("validating rule set: %w", err)
	}

	var doc ruleSetDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding rule set: %w", err)
	}

	out := make([]StyleRule, 0, len(doc.Rules))
	for _, entry := range doc.Rules {
		rule := StyleRule{
			ID:      entry.ID,
			Kind:    entry.Kind,
			Pattern: entry.Pattern,
			Enabled: entry.Enabled == nil || *entry.Enabled,
			Color:   entry.Color,
			Shape:   entry.Shape,
			Size:    entry.Size,
		}
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		out = append(out, rule)
	}
	return out, nil
}
