// Package style provides the configuration snapshot and the node/edge
// style resolver for Halo.
//
// Styles are resolved as pure functions of the hop classification, the
// active-node identity, rule overrides, and a read-only configuration
// snapshot; one resolution pass touches every node and edge and leaves
// no state behind.
package style

import (
	"fmt"
	"strings"
)

// Color is a packed 0xRRGGBB value.
type Color int

// NeutralGray is the fallback color for nodes and edges that no rule
// and no configured palette entry covers.
const NeutralGray Color = 0x808080

// ParseColor parses a "#rrggbb" or "rrggbb" hex string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return 0, fmt.Errorf("parsing color %q: want 6 hex digits", s)
	}
	var packed int
	for _, r := range s {
		d, err := hexDigit(r)
		if err != nil {
			return 0, fmt.Errorf("parsing color %q: %w", s, err)
		}
		packed = packed<<4 | d
	}
	return Color(packed), nil
}

func hexDigit(r rune) (int, error) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), nil
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10, nil
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", r)
	}
}

// Hex renders the color as "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%06x", int(c)&0xffffff)
}

// MarshalJSON renders the color as a hex string.
func (c Color) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.Hex() + `"`), nil
}

// UnmarshalJSON accepts a hex string.
func (c *Color) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML renders the color as a hex string.
func (c Color) MarshalYAML() (any, error) {
	return c.Hex(), nil
}

// UnmarshalYAML accepts a hex string.
func (c *Color) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
