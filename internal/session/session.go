// Package session owns the per-surface recomputation state for Halo.
//
// One Session serves one visualization surface. It holds the adjacency
// graph, the hop classification, and the resolved style tables, and
// rebuilds all of them in a single synchronous pass per trigger. There
// is no incremental diffing: a newer pass simply supersedes the
// previous one.
package session

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/halo-viz/halo-go/internal/graph"
	"github.com/halo-viz/halo-go/internal/rules"
	"github.com/halo-viz/halo-go/internal/style"
)

// ActiveFunc resolves the currently focused node identifier, or
// reports that none is focused.
type ActiveFunc func() (string, bool)

// ResolvedEdge pairs one host edge with its resolved style.
type ResolvedEdge struct {
	Source string                  `json:"source"`
	Target string                  `json:"target"`
	Style  style.ResolvedEdgeStyle `json:"style"`
}

// StyleTable is the output of one pass: the record handed to the
// renderer-binding layer.
type StyleTable struct {
	Active string                             `json:"active,omitempty"`
	Nodes  map[string]style.ResolvedNodeStyle `json:"nodes"`
	Edges  []ResolvedEdge                     `json:"edges"`
}

// Options configures a Session.
type Options struct {
	Config style.Config
	Rules  []rules.StyleRule
	Tags   rules.TagLookup
	Active ActiveFunc
	Log    *logrus.Logger
}

// Session drives recomputation for one surface. All caches are owned
// exclusively by the session; reads from other goroutines (the serve
// surface) go through copying accessors under the read lock.
type Session struct {
	mu        sync.RWMutex
	cfg       style.Config
	rules     []rules.StyleRule
	tags      rules.TagLookup
	active    ActiveFunc
	log       *logrus.Logger
	onRefresh func()

	lastNodes any
	lastEdges []graph.EdgeRef
	nodeCount int
	edgeCount int

	graph     *graph.AdjacencyGraph
	hops      graph.HopClassification
	connected map[string]struct{}
	classes   map[string]style.NodeClass
	table     StyleTable
}

// New creates a session. The configuration snapshot is normalized once
// on entry; rule and tag inputs are read-only during passes.
func New(opts Options) *Session {
	opts.Config.Normalize()
	log := opts.Log
	if log == nil {
		log = logrus.New()
	}
	return &Session{
		cfg:    opts.Config,
		rules:  opts.Rules,
		tags:   opts.Tags,
		active: opts.Active,
		log:    log,
		graph:  graph.NewAdjacencyGraph(),
	}
}

// OnRefresh registers the "changed" notification fired after every
// completed pass. The callback runs outside the session lock.
func (s *Session) OnRefresh(fn func()) {
	s.mu.Lock()
	s.onRefresh = fn
	s.mu.Unlock()
}

// SetConfig replaces the configuration snapshot for subsequent passes.
func (s *Session) SetConfig(cfg style.Config) {
	cfg.Normalize()
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// SetRules replaces the rule list for subsequent passes.
func (s *Session) SetRules(list []rules.StyleRule) {
	s.mu.Lock()
	s.rules = list
	s.mu.Unlock()
}

// Dirty reports whether the collections differ in size from the last
// pass. It is cheap enough for animation-frame polling; it never
// normalizes links or rebuilds anything.
func (s *Session) Dirty(nodes any, edges []graph.EdgeRef) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return graph.CountNodes(nodes) != s.nodeCount || len(edges) != s.edgeCount
}

// Recompute runs one full pass: rebuild the adjacency graph, classify
// every node against the active node, resolve every node and edge
// style, then fire the refresh notification.
//
// An active identifier absent from the graph is treated as "no active
// node". When no active node is known, BFS is skipped entirely and all
// nodes get the hop-independent normal treatment.
func (s *Session) Recompute(nodes any, edges []graph.EdgeRef) {
	s.mu.Lock()

	g := graph.Build(nodes)

	activeID, hasActive := "", false
	if s.active != nil {
		activeID, hasActive = s.active()
	}
	if hasActive && !g.HasNode(activeID) {
		activeID, hasActive = "", false
	}

	var hops graph.HopClassification
	var connected map[string]struct{}
	if hasActive {
		hops = graph.HopNeighbors(g, activeID, s.cfg.MaxHops)
		connected = graph.Connected(g, activeID)
	}

	classes := make(map[string]style.NodeClass, g.NodeCount())
	nodeStyles := make(map[string]style.ResolvedNodeStyle, g.NodeCount())
	for _, id := range g.NodeIDs() {
		class := classify(id, activeID, hasActive, hops, connected)
		classes[id] = class

		override, matched := rules.Resolve(s.rules, id, s.tags)
		var op *style.Override
		if matched {
			op = &override
		}
		nodeStyles[id] = style.ResolveNodeStyle(s.cfg, class, hasActive, op)
	}

	resolvedEdges := make([]ResolvedEdge, 0, len(edges))
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		srcStyle, srcResolved := nodeStyles[e.Source]
		es := style.ResolveEdgeStyle(s.cfg, classes[e.Source], classes[e.Target], srcStyle, srcResolved, hasActive)
		resolvedEdges = append(resolvedEdges, ResolvedEdge{Source: e.Source, Target: e.Target, Style: es})
	}

	s.lastNodes = nodes
	s.lastEdges = edges
	s.nodeCount = graph.CountNodes(nodes)
	s.edgeCount = len(edges)
	s.graph = g
	s.hops = hops
	s.connected = connected
	s.classes = classes
	s.table = StyleTable{Active: activeID, Nodes: nodeStyles, Edges: resolvedEdges}
	notify := s.onRefresh

	s.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// Refresh re-runs the pass with the inputs from the previous pass.
// Used when the active node or the configuration changed but the
// topology did not.
func (s *Session) Refresh() {
	s.mu.RLock()
	nodes, edges := s.lastNodes, s.lastEdges
	s.mu.RUnlock()
	s.Recompute(nodes, edges)
}

// Table returns a copy of the current style table.
func (s *Session) Table() StyleTable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := StyleTable{
		Active: s.table.Active,
		Nodes:  make(map[string]style.ResolvedNodeStyle, len(s.table.Nodes)),
		Edges:  make([]ResolvedEdge, len(s.table.Edges)),
	}
	for id, ns := range s.table.Nodes {
		out.Nodes[id] = ns
	}
	copy(out.Edges, s.table.Edges)
	return out
}

// NodeStyle returns the resolved style for one node.
func (s *Session) NodeStyle(id string) (style.ResolvedNodeStyle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ns, ok := s.table.Nodes[id]
	return ns, ok
}

// Classification returns the node's classification from the last pass.
func (s *Session) Classification(id string) style.NodeClass {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.classes[id]
}

// HopLevels returns the hop classification as sorted identifier lists,
// keyed by hop number.
func (s *Session) HopLevels() map[int][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int][]string, len(s.hops))
	for hop, set := range s.hops {
		ids := make([]string, 0, len(set))
		for id := range set {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[hop] = ids
	}
	return out
}

// ConnectedSet returns the sorted identifiers reachable from the
// active node.
func (s *Session) ConnectedSet() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.connected))
	for id := range s.connected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Counts returns the node and edge counts of the current adjacency
// graph.
func (s *Session) Counts() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graph.NodeCount(), s.graph.EdgeCount()
}

// classify maps one node to its tagged classification.
func classify(id, activeID string, hasActive bool, hops graph.HopClassification, connected map[string]struct{}) style.NodeClass {
	if !hasActive {
		return style.NodeClass{Class: style.ClassUnknown}
	}
	if id == activeID {
		return style.NodeClass{Class: style.ClassActive}
	}
	if hop, ok := hops.HopOf(id); ok {
		return style.NodeClass{Class: style.ClassHop, Hop: hop}
	}
	if _, ok := connected[id]; ok {
		return style.NodeClass{Class: style.ClassBeyond}
	}
	return style.NodeClass{Class: style.ClassDisconnected}
}
