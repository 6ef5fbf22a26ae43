package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainGraph builds A-B-C-D.
func chainGraph() *AdjacencyGraph {
	g := NewAdjacencyGraph()
	g.AddEdge("A", "B")
	g.AddEdge("B", "C")
	g.AddEdge("C", "D")
	return g
}

func TestHopNeighbors_LinearChain(t *testing.T) {
	t.Parallel()

	// A-B-C-D from B with maxHops=2: hop 1 = {A, C}, hop 2 = {D}.
	hops := HopNeighbors(chainGraph(), "B", 2)

	require.Len(t, hops[1], 2)
	assert.Contains(t, hops[1], "A")
	assert.Contains(t, hops[1], "C")
	require.Len(t, hops[2], 1)
	assert.Contains(t, hops[2], "D")
}

func TestHopNeighbors_Disjoint(t *testing.T) {
	t.Parallel()

	// Diamond plus tail: shortest-path distance only, no node twice.
	g := NewAdjacencyGraph()
	g.AddEdge("s", "a")
	g.AddEdge("s", "b")
	g.AddEdge("a", "c")
	g.AddEdge("b", "c")
	g.AddEdge("c", "d")

	hops := HopNeighbors(g, "s", 3)

	seen := make(map[string]int)
	for hop, set := range hops {
		for id := range set {
			_, dup := seen[id]
			require.False(t, dup, "node %s classified twice", id)
			seen[id] = hop
		}
	}

	assert.Equal(t, 1, seen["a"])
	assert.Equal(t, 1, seen["b"])
	assert.Equal(t, 2, seen["c"])
	assert.Equal(t, 3, seen["d"])
	assert.NotContains(t, seen, "s")
}

func TestHopNeighbors_BoundaryHopComplete(t *testing.T) {
	t.Parallel()

	// Star of depth-2 paths: all leaves must land on hop 2 even though
	// expansion stops there.
	g := NewAdjacencyGraph()
	for i := 0; i < 4; i++ {
		mid := fmt.Sprintf("m%d", i)
		leaf := fmt.Sprintf("l%d", i)
		g.AddEdge("s", mid)
		g.AddEdge(mid, leaf)
	}

	hops := HopNeighbors(g, "s", 2)

	assert.Len(t, hops[1], 4)
	assert.Len(t, hops[2], 4)
	assert.NotContains(t, hops, 3)
}

func TestHopNeighbors_StopsAtHorizon(t *testing.T) {
	t.Parallel()

	hops := HopNeighbors(chainGraph(), "A", 2)

	assert.Contains(t, hops[1], "B")
	assert.Contains(t, hops[2], "C")
	assert.NotContains(t, hops, 3)
	_, found := hops.HopOf("D")
	assert.False(t, found)
}

func TestHopNeighbors_Degenerate(t *testing.T) {
	t.Parallel()

	t.Run("AbsentSource", func(t *testing.T) {
		t.Parallel()
		hops := HopNeighbors(chainGraph(), "missing", 3)
		assert.Empty(t, hops)
	})

	t.Run("ZeroMaxHops", func(t *testing.T) {
		t.Parallel()
		hops := HopNeighbors(chainGraph(), "B", 0)
		assert.Empty(t, hops)
	})

	t.Run("NilGraph", func(t *testing.T) {
		t.Parallel()
		hops := HopNeighbors(nil, "B", 2)
		assert.Empty(t, hops)
	})

	t.Run("IsolatedSource", func(t *testing.T) {
		t.Parallel()
		g := NewAdjacencyGraph()
		g.AddNode("lonely")
		hops := HopNeighbors(g, "lonely", 3)
		assert.Empty(t, hops)
	})
}

func TestConnected(t *testing.T) {
	t.Parallel()

	t.Run("ExcludesSource", func(t *testing.T) {
		t.Parallel()
		conn := Connected(chainGraph(), "B")
		assert.NotContains(t, conn, "B")
		assert.Len(t, conn, 3)
	})

	t.Run("DisconnectedComponents", func(t *testing.T) {
		t.Parallel()
		g := NewAdjacencyGraph()
		g.AddEdge("A", "B")
		g.AddEdge("C", "D")

		conn := Connected(g, "A")
		require.Len(t, conn, 1)
		assert.Contains(t, conn, "B")
	})

	t.Run("Unbounded", func(t *testing.T) {
		t.Parallel()
		// Longer than any hop horizon.
		g := NewAdjacencyGraph()
		prev := "n0"
		for i := 1; i <= 20; i++ {
			next := fmt.Sprintf("n%d", i)
			g.AddEdge(prev, next)
			prev = next
		}

		conn := Connected(g, "n0")
		assert.Len(t, conn, 20)
	})

	t.Run("AbsentSource", func(t *testing.T) {
		t.Parallel()
		conn := Connected(chainGraph(), "missing")
		assert.Empty(t, conn)
	})
}

func TestHopClassification_HopOf(t *testing.T) {
	t.Parallel()

	hops := HopNeighbors(chainGraph(), "A", 3)

	hop, ok := hops.HopOf("C")
	require.True(t, ok)
	assert.Equal(t, 2, hop)

	_, ok = hops.HopOf("A")
	assert.False(t, ok)

	assert.Equal(t, 3, hops.Size())
}
