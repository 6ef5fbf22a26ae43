package style

// Class tags a node's relation to the active node for one pass. The
// explicit tagging replaces sentinel hop values (-1 disconnected,
// 0 active) so no consumer has to decode magic numbers.
type Class int

const (
	// ClassUnknown marks nodes that were never classified, e.g. an edge
	// endpoint missing from the node collection.
	ClassUnknown Class = iota
	// ClassActive is the active node itself.
	ClassActive
	// ClassHop marks nodes within 1..MaxHops of the active node; the
	// hop number travels alongside in NodeClass.Hop.
	ClassHop
	// ClassBeyond marks nodes reachable from the active node but
	// farther than MaxHops.
	ClassBeyond
	// ClassDisconnected marks nodes unreachable from the active node.
	ClassDisconnected
)

// NodeClass is one node's hop classification.
type NodeClass struct {
	Class Class
	Hop   int // shortest-path distance, set only for ClassHop
}

// InRange reports whether the node sits within the 1..MaxHops horizon.
func (n NodeClass) InRange() bool {
	return n.Class == ClassHop
}

// hopInfinity stands for "unreachable" in min-hop comparisons.
const hopInfinity = int(^uint(0) >> 1)

// hopNumber converts the classification to a comparable hop count for
// edge resolution. Active maps to 0; connected-beyond nodes map to
// maxHops+1 (finite but out of range); unknown and disconnected nodes
// map to infinity.
func (n NodeClass) hopNumber(maxHops int) int {
	switch n.Class {
	case ClassActive:
		return 0
	case ClassHop:
		return n.Hop
	case ClassBeyond:
		return maxHops + 1
	default:
		return hopInfinity
	}
}

// Override carries the optional style fields of a matched rule.
type Override struct {
	Color *Color
	Shape *Shape
	Size  *float64
}

// ResolvedNodeStyle is the concrete style computed for one node in one
// pass. Ephemeral; recomputed for every node on every trigger.
type ResolvedNodeStyle struct {
	Color   Color   `json:"color"`
	Opacity float64 `json:"opacity"`
	Shape   Shape   `json:"shape"`
	Size    float64 `json:"size"`
}

// ResolvedEdgeStyle is the concrete style computed for one edge in one
// pass.
type ResolvedEdgeStyle struct {
	Color   Color   `json:"color"`
	Opacity float64 `json:"opacity"`
	Width   float64 `json:"width"`
}

// ResolveNodeStyle computes a node's style from its classification, the
// presence of an active node, and an optional rule override.
//
// Precedence: no-active normal treatment, then active node, then hop
// color, then connected-beyond, then disconnected. The rule color wins
// over hop colors but never over the active color; the active size
// wins over the rule size for the active node itself.
func ResolveNodeStyle(cfg Config, class NodeClass, hasActive bool, override *Override) ResolvedNodeStyle {
	s := ResolvedNodeStyle{
		Shape: cfg.NodeShape,
		Size:  cfg.NodeSize,
	}
	if override != nil && override.Shape != nil {
		s.Shape = *override.Shape
	}
	if override != nil && override.Size != nil {
		s.Size = *override.Size
	}

	if !hasActive {
		s.Color = overrideColor(override, cfg.HopColor(1))
		s.Opacity = 1.0
		return s
	}

	switch class.Class {
	case ClassActive:
		s.Color = cfg.ActiveColor
		s.Opacity = 1.0
		s.Size = cfg.ActiveSize // active size always wins
	case ClassHop:
		s.Color = overrideColor(override, cfg.HopColor(class.Hop))
		s.Opacity = 1.0
	case ClassBeyond:
		// Connected but distant: mid-point between full visibility and
		// the disconnected fade.
		s.Color = overrideColor(override, NeutralGray)
		s.Opacity = 0.5
	default:
		s.Color = overrideColor(override, NeutralGray)
		s.Opacity = cfg.DisconnectedOpacity
	}
	return s
}

// ResolveEdgeStyle computes an edge's style from its endpoint
// classifications and, for EdgeModeInherit, the source endpoint's
// already-resolved style. srcResolved reports whether srcStyle is
// meaningful.
//
// The precedence between "endpoint is active" and "both endpoints in
// range" differs between modes on purpose; each mode keeps its
// observed ordering.
func ResolveEdgeStyle(cfg Config, src, dst NodeClass, srcStyle ResolvedNodeStyle, srcResolved bool, hasActive bool) ResolvedEdgeStyle {
	if !hasActive {
		base := cfg.EdgeColor
		if cfg.EdgeColorMode == EdgeModeInherit {
			base = inheritBase(srcStyle, srcResolved)
		}
		return ResolvedEdgeStyle{Color: base, Opacity: 1.0, Width: cfg.EdgeWidthDefault}
	}

	switch cfg.EdgeColorMode {
	case EdgeModeInherit:
		return resolveInheritEdge(cfg, src, dst, srcStyle, srcResolved)
	case EdgeModeByHop:
		return resolveByHopEdge(cfg, src, dst)
	default:
		return resolveSingleEdge(cfg, src, dst)
	}
}

func resolveSingleEdge(cfg Config, src, dst NodeClass) ResolvedEdgeStyle {
	switch {
	case src.Class == ClassActive || dst.Class == ClassActive:
		return ResolvedEdgeStyle{Color: cfg.EdgeHighlightColor, Opacity: 1.0, Width: cfg.EdgeWidthActive}
	case src.InRange() && dst.InRange():
		return ResolvedEdgeStyle{Color: cfg.EdgeColor, Opacity: 0.8, Width: cfg.EdgeWidthDefault}
	default:
		return ResolvedEdgeStyle{Color: cfg.EdgeColor, Opacity: cfg.DisconnectedOpacity, Width: cfg.EdgeWidthDisconnected}
	}
}

func resolveInheritEdge(cfg Config, src, dst NodeClass, srcStyle ResolvedNodeStyle, srcResolved bool) ResolvedEdgeStyle {
	base := inheritBase(srcStyle, srcResolved)
	switch {
	case src.Class == ClassActive || dst.Class == ClassActive:
		return ResolvedEdgeStyle{Color: base, Opacity: 1.0, Width: cfg.EdgeWidthActive}
	case src.InRange() && dst.InRange():
		// Capped by the source node's own fade rather than a fixed 0.8.
		return ResolvedEdgeStyle{Color: base, Opacity: minFloat(srcStyle.Opacity, 0.8), Width: cfg.EdgeWidthDefault}
	default:
		return ResolvedEdgeStyle{Color: base, Opacity: cfg.DisconnectedOpacity, Width: cfg.EdgeWidthDisconnected}
	}
}

func resolveByHopEdge(cfg Config, src, dst NodeClass) ResolvedEdgeStyle {
	if src.Class == ClassActive || dst.Class == ClassActive {
		return ResolvedEdgeStyle{Color: cfg.HopEdgeColor(1), Opacity: 1.0, Width: cfg.EdgeWidthActive}
	}

	// Non-positive and unknown hop numbers count as infinite here; the
	// active case is already handled above.
	minHop := hopInfinity
	for _, hop := range [2]int{src.hopNumber(cfg.MaxHops), dst.hopNumber(cfg.MaxHops)} {
		if hop >= 1 && hop < minHop {
			minHop = hop
		}
	}

	switch {
	case minHop <= cfg.MaxHops:
		return ResolvedEdgeStyle{Color: cfg.HopEdgeColor(minHop), Opacity: 0.7, Width: cfg.EdgeWidthDefault}
	case minHop < hopInfinity:
		return ResolvedEdgeStyle{Color: cfg.EdgeColor, Opacity: 0.4, Width: cfg.EdgeWidthDisconnected}
	default:
		return ResolvedEdgeStyle{Color: cfg.EdgeColor, Opacity: cfg.DisconnectedOpacity, Width: cfg.EdgeWidthDisconnected}
	}
}

func inheritBase(srcStyle ResolvedNodeStyle, srcResolved bool) Color {
	if !srcResolved {
		return NeutralGray
	}
	return srcStyle.Color
}

func overrideColor(override *Override, fallback Color) Color {
	if override != nil && override.Color != nil {
		return *override.Color
	}
	return fallback
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
