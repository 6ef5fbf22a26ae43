// Package graph provides the adjacency structure and distance engine for Halo.
//
// It normalizes the host's shape-polymorphic node collections into an
// undirected adjacency graph keyed by opaque string identifiers, and
// answers bounded and unbounded breadth-first distance queries over it.
package graph

// NodeDescriptor is the builder-facing view of a single host node.
//
// Forward and Reverse hold link references as the host hands them over:
// each element is either a raw identifier string, a map carrying an
// "id" field, or a *LinkRef.
type NodeDescriptor struct {
	// ID is the opaque, stable identifier of the node (typically a
	// file-path analog).
	ID string `json:"id"`

	// Forward holds outgoing link references.
	Forward []any `json:"forward"`

	// Reverse holds incoming link references, read from this node's
	// perspective.
	Reverse []any `json:"reverse"`
}

// LinkRef is an embedded link object carrying only an identifier.
type LinkRef struct {
	ID string `json:"id"`
}

// EdgeRef is the host's view of one rendered edge.
type EdgeRef struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// AdjacencyGraph is a symmetric, set-semantic adjacency structure.
//
// Invariant: every identifier that appears as a neighbor also appears
// as a key, possibly with an empty neighbor set. The structure is built
// fresh on every topology change and is not safe for concurrent
// mutation; the owning session serializes passes.
type AdjacencyGraph struct {
	adj map[string]map[string]struct{}
}

// NewAdjacencyGraph creates an empty adjacency graph.
func NewAdjacencyGraph() *AdjacencyGraph {
	return &AdjacencyGraph{adj: make(map[string]map[string]struct{})}
}

// AddNode ensures the identifier exists as a key.
func (g *AdjacencyGraph) AddNode(id string) {
	if id == "" {
		return
	}
	if g.adj[id] == nil {
		g.adj[id] = make(map[string]struct{})
	}
}

// AddEdge inserts the undirected edge {a, b}. Insertion is idempotent;
// empty identifiers and self-loops are ignored. Both endpoints become
// keys.
func (g *AdjacencyGraph) AddEdge(a, b string) {
	if a == "" || b == "" || a == b {
		return
	}
	g.AddNode(a)
	g.AddNode(b)
	g.adj[a][b] = struct{}{}
	g.adj[b][a] = struct{}{}
}

// HasNode reports whether the identifier is a key in the graph.
func (g *AdjacencyGraph) HasNode(id string) bool {
	_, ok := g.adj[id]
	return ok
}

// Neighbors returns the neighbor set of the given identifier, or nil if
// the identifier is not a key. The returned map is the graph's own;
// callers must not mutate it.
func (g *AdjacencyGraph) Neighbors(id string) map[string]struct{} {
	return g.adj[id]
}

// NodeIDs returns all keys in unspecified order.
func (g *AdjacencyGraph) NodeIDs() []string {
	ids := make([]string, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	return ids
}

// NodeCount returns the number of keys.
func (g *AdjacencyGraph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges.
func (g *AdjacencyGraph) EdgeCount() int {
	total := 0
	for _, neighbors := range g.adj {
		total += len(neighbors)
	}
	return total / 2
}
