package graph

// HopClassification maps a hop number (1..maxHops) to the set of node
// identifiers at exactly that shortest-path distance from the source.
// Sets at different hop numbers are disjoint and never contain the
// source.
type HopClassification map[int]map[string]struct{}

// HopOf returns the hop number recorded for the identifier, if any.
func (h HopClassification) HopOf(id string) (int, bool) {
	for hop, set := range h {
		if _, ok := set[id]; ok {
			return hop, true
		}
	}
	return 0, false
}

// Size returns the total number of classified identifiers.
func (h HopClassification) Size() int {
	total := 0
	for _, set := range h {
		total += len(set)
	}
	return total
}

// bfsItem pairs a node with its shortest-path distance in the queue.
type bfsItem struct {
	id    string
	depth int
}

// HopNeighbors classifies every node within maxHops of source by its
// shortest-path distance, using a FIFO breadth-first search with a
// global visited set (each node is enqueued at most once, so the pass
// is O(V+E)). Expansion stops at nodes whose distance equals maxHops,
// but the queue is drained so the boundary hop is complete.
//
// A source absent from the graph or a non-positive maxHops yields an
// empty classification, never an error.
func HopNeighbors(g *AdjacencyGraph, source string, maxHops int) HopClassification {
	result := make(HopClassification)
	if g == nil || maxHops < 1 || !g.HasNode(source) {
		return result
	}

	visited := map[string]struct{}{source: {}}
	queue := []bfsItem{{id: source, depth: 0}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.depth > 0 {
			if result[current.depth] == nil {
				result[current.depth] = make(map[string]struct{})
			}
			result[current.depth][current.id] = struct{}{}
		}

		if current.depth >= maxHops {
			continue
		}
		for neighbor := range g.Neighbors(current.id) {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			queue = append(queue, bfsItem{id: neighbor, depth: current.depth + 1})
		}
	}

	return result
}

// Connected returns every node reachable from source by any path,
// excluding the source itself. A source absent from the graph yields
// an empty set.
func Connected(g *AdjacencyGraph, source string) map[string]struct{} {
	result := make(map[string]struct{})
	if g == nil || !g.HasNode(source) {
		return result
	}

	visited := map[string]struct{}{source: {}}
	queue := []string{source}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current != source {
			result[current] = struct{}{}
		}

		for neighbor := range g.Neighbors(current) {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			queue = append(queue, neighbor)
		}
	}

	return result
}
