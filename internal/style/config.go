package style

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EdgeColorMode selects how an edge's color is derived.
type EdgeColorMode string

const (
	// EdgeModeSingle uses one fixed color for every edge.
	EdgeModeSingle EdgeColorMode = "single"
	// EdgeModeInherit derives the edge color from the source endpoint's
	// resolved node color.
	EdgeModeInherit EdgeColorMode = "inherit"
	// EdgeModeByHop colors an edge by the smaller hop number of its
	// endpoints.
	EdgeModeByHop EdgeColorMode = "by-hop"
)

// Shape is a node shape name understood by the renderer.
type Shape string

// ShapeCircle is the default node shape.
const ShapeCircle Shape = "circle"

// MaxHopLimit caps the configurable hop horizon.
const MaxHopLimit = 5

// Config is the full set of tunable styling parameters. The core
// receives a read-only snapshot per recomputation pass; violations of
// its invariants (a hop color array shorter than MaxHops) degrade to
// defaults rather than failing a pass.
type Config struct {
	// MaxHops is the hop horizon, 1..MaxHopLimit.
	MaxHops int `yaml:"max_hops" json:"max_hops"`

	// HopColors holds node colors per hop, 1-indexed by hop number
	// (hop 1 uses index 0).
	HopColors []Color `yaml:"hop_colors" json:"hop_colors"`

	// ActiveColor and ActiveSize style the active node itself.
	ActiveColor Color   `yaml:"active_color" json:"active_color"`
	ActiveSize  float64 `yaml:"active_size" json:"active_size"`

	// DisconnectedOpacity fades nodes unreachable from the active node.
	DisconnectedOpacity float64 `yaml:"disconnected_opacity" json:"disconnected_opacity"`

	// EdgeColorMode selects the edge derivation policy.
	EdgeColorMode EdgeColorMode `yaml:"edge_color_mode" json:"edge_color_mode"`

	// HopEdgeColors holds edge colors per hop for EdgeModeByHop,
	// 1-indexed like HopColors.
	HopEdgeColors []Color `yaml:"hop_edge_colors" json:"hop_edge_colors"`

	// EdgeColor is the base edge color; EdgeHighlightColor is used for
	// the active node's edges in EdgeModeSingle.
	EdgeColor          Color `yaml:"edge_color" json:"edge_color"`
	EdgeHighlightColor Color `yaml:"edge_highlight_color" json:"edge_highlight_color"`

	// Edge width multipliers per category.
	EdgeWidthActive       float64 `yaml:"edge_width_active" json:"edge_width_active"`
	EdgeWidthDefault      float64 `yaml:"edge_width_default" json:"edge_width_default"`
	EdgeWidthDisconnected float64 `yaml:"edge_width_disconnected" json:"edge_width_disconnected"`

	// Node defaults used when no rule override applies.
	NodeShape Shape   `yaml:"node_shape" json:"node_shape"`
	NodeSize  float64 `yaml:"node_size" json:"node_size"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		MaxHops:               2,
		HopColors:             []Color{0xe9973f, 0xe0de71, 0x53dfdd},
		ActiveColor:           0xc061cb,
		ActiveSize:            1.6,
		DisconnectedOpacity:   0.2,
		EdgeColorMode:         EdgeModeSingle,
		HopEdgeColors:         []Color{0xe9973f, 0xe0de71, 0x53dfdd},
		EdgeColor:             0x999999,
		EdgeHighlightColor:    0xc061cb,
		EdgeWidthActive:       2.0,
		EdgeWidthDefault:      1.0,
		EdgeWidthDisconnected: 0.5,
		NodeShape:             ShapeCircle,
		NodeSize:              1.0,
	}
}

// LoadConfig reads a YAML configuration file, applying defaults for
// absent fields. A missing file yields the default configuration, not
// an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Normalize clamps out-of-range values back into their documented
// domains.
func (c *Config) Normalize() {
	if c.MaxHops < 1 {
		c.MaxHops = 1
	}
	if c.MaxHops > MaxHopLimit {
		c.MaxHops = MaxHopLimit
	}
	c.DisconnectedOpacity = clampOpacity(c.DisconnectedOpacity)
	if c.EdgeColorMode != EdgeModeSingle && c.EdgeColorMode != EdgeModeInherit && c.EdgeColorMode != EdgeModeByHop {
		c.EdgeColorMode = EdgeModeSingle
	}
	if c.NodeShape == "" {
		c.NodeShape = ShapeCircle
	}
	if c.NodeSize <= 0 {
		c.NodeSize = 1.0
	}
	if c.ActiveSize <= 0 {
		c.ActiveSize = c.NodeSize
	}
	if c.EdgeWidthActive <= 0 {
		c.EdgeWidthActive = 2.0
	}
	if c.EdgeWidthDefault <= 0 {
		c.EdgeWidthDefault = 1.0
	}
	if c.EdgeWidthDisconnected <= 0 {
		c.EdgeWidthDisconnected = 0.5
	}
}

// HopColor returns the node color for a 1-indexed hop number, falling
// back to NeutralGray when the palette is shorter than the hop.
func (c Config) HopColor(hop int) Color {
	if hop < 1 || hop > len(c.HopColors) {
		return NeutralGray
	}
	return c.HopColors[hop-1]
}

// HopEdgeColor returns the edge color for a 1-indexed hop number,
// falling back to the base edge color when the palette is short.
func (c Config) HopEdgeColor(hop int) Color {
	if hop < 1 || hop > len(c.HopEdgeColors) {
		return c.EdgeColor
	}
	return c.HopEdgeColors[hop-1]
}

func clampOpacity(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
