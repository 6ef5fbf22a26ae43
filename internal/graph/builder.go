package graph

// nodeEntry is one normalized (id, links) pair produced by the shape
// dispatch below.
type nodeEntry struct {
	id      string
	forward []any
	reverse []any
}

// Build converts an externally-owned node collection into a normalized
// undirected adjacency graph.
//
// The collection may be an ordered sequence, an associative mapping, or
// a bare record; descriptors may be *NodeDescriptor values or plain
// maps. Malformed or nil entries are skipped rather than aborting
// construction. Link endpoints that do not appear in the input are
// still added as keys so that distance queries stay total.
func Build(nodes any) *AdjacencyGraph {
	g := NewAdjacencyGraph()

	for _, entry := range normalize(nodes) {
		if entry.id == "" {
			continue
		}
		g.AddNode(entry.id)

		// A forward link A->B and a reverse link B->A both denote the
		// undirected edge {A,B}; AddEdge is idempotent so observing the
		// same logical link from both endpoints is harmless.
		for _, link := range entry.forward {
			if target := linkID(link); target != "" {
				g.AddEdge(entry.id, target)
			}
		}
		for _, link := range entry.reverse {
			if source := linkID(link); source != "" {
				g.AddEdge(source, entry.id)
			}
		}
	}

	return g
}

// CountNodes returns the number of top-level entries in a node
// collection without normalizing link references. Used for cheap
// dirty checks at polling cadence.
func CountNodes(nodes any) int {
	switch v := nodes.(type) {
	case nil:
		return 0
	case []any:
		return len(v)
	case []*NodeDescriptor:
		return len(v)
	case []NodeDescriptor:
		return len(v)
	case map[string]any:
		if isDescriptorMap(v) {
			return 1
		}
		return len(v)
	case map[string]*NodeDescriptor:
		return len(v)
	case *NodeDescriptor, NodeDescriptor:
		return 1
	default:
		return 0
	}
}

// normalize dispatches over the container shape: sequence, mapping, or
// bare record.
func normalize(nodes any) []nodeEntry {
	switch v := nodes.(type) {
	case nil:
		return nil
	case []any:
		entries := make([]nodeEntry, 0, len(v))
		for _, item := range v {
			if entry, ok := descriptorEntry(item, ""); ok {
				entries = append(entries, entry)
			}
		}
		return entries
	case []*NodeDescriptor:
		entries := make([]nodeEntry, 0, len(v))
		for _, d := range v {
			if d != nil {
				entries = append(entries, nodeEntry{id: d.ID, forward: d.Forward, reverse: d.Reverse})
			}
		}
		return entries
	case []NodeDescriptor:
		entries := make([]nodeEntry, 0, len(v))
		for _, d := range v {
			entries = append(entries, nodeEntry{id: d.ID, forward: d.Forward, reverse: d.Reverse})
		}
		return entries
	case map[string]*NodeDescriptor:
		entries := make([]nodeEntry, 0, len(v))
		for key, d := range v {
			if d == nil {
				continue
			}
			entry := nodeEntry{id: d.ID, forward: d.Forward, reverse: d.Reverse}
			if entry.id == "" {
				entry.id = key
			}
			entries = append(entries, entry)
		}
		return entries
	case map[string]any:
		// A plain map is ambiguous: it is either one bare descriptor
		// record or a mapping from identifier to descriptor.
		if isDescriptorMap(v) {
			if entry, ok := descriptorEntry(v, ""); ok {
				return []nodeEntry{entry}
			}
			return nil
		}
		entries := make([]nodeEntry, 0, len(v))
		for key, item := range v {
			if entry, ok := descriptorEntry(item, key); ok {
				entries = append(entries, entry)
			}
		}
		return entries
	case *NodeDescriptor:
		if v == nil {
			return nil
		}
		return []nodeEntry{{id: v.ID, forward: v.Forward, reverse: v.Reverse}}
	case NodeDescriptor:
		return []nodeEntry{{id: v.ID, forward: v.Forward, reverse: v.Reverse}}
	default:
		return nil
	}
}

// descriptorEntry extracts a nodeEntry from a single descriptor value.
// fallbackID is used when the descriptor itself carries no identifier
// (mapping shape, where the key is the identifier).
func descriptorEntry(item any, fallbackID string) (nodeEntry, bool) {
	switch d := item.(type) {
	case nil:
		return nodeEntry{}, false
	case *NodeDescriptor:
		if d == nil {
			return nodeEntry{}, false
		}
		entry := nodeEntry{id: d.ID, forward: d.Forward, reverse: d.Reverse}
		if entry.id == "" {
			entry.id = fallbackID
		}
		return entry, entry.id != ""
	case NodeDescriptor:
		entry := nodeEntry{id: d.ID, forward: d.Forward, reverse: d.Reverse}
		if entry.id == "" {
			entry.id = fallbackID
		}
		return entry, entry.id != ""
	case map[string]any:
		entry := nodeEntry{
			id:      stringField(d, "id"),
			forward: sliceField(d, "forward", "links"),
			reverse: sliceField(d, "reverse", "backlinks"),
		}
		if entry.id == "" {
			entry.id = fallbackID
		}
		return entry, entry.id != ""
	case string:
		// A bare identifier is a node with no links.
		if d == "" && fallbackID == "" {
			return nodeEntry{}, false
		}
		if d == "" {
			return nodeEntry{id: fallbackID}, true
		}
		return nodeEntry{id: d}, true
	default:
		return nodeEntry{}, false
	}
}

// linkID extracts the identifier from a link reference element.
func linkID(link any) string {
	switch l := link.(type) {
	case string:
		return l
	case *LinkRef:
		if l == nil {
			return ""
		}
		return l.ID
	case LinkRef:
		return l.ID
	case map[string]any:
		return stringField(l, "id")
	default:
		return ""
	}
}

// isDescriptorMap reports whether a plain map looks like a single
// descriptor record rather than an id-to-descriptor mapping.
func isDescriptorMap(m map[string]any) bool {
	if _, ok := m["id"]; ok {
		return true
	}
	if _, ok := m["forward"]; ok {
		return true
	}
	if _, ok := m["reverse"]; ok {
		return true
	}
	return false
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func sliceField(m map[string]any, keys ...string) []any {
	for _, key := range keys {
		if v, ok := m[key].([]any); ok {
			return v
		}
	}
	return nil
}
