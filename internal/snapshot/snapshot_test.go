package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-viz/halo-go/internal/graph"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("SequenceNodes", func(t *testing.T) {
		t.Parallel()
		doc := `{
			"nodes": [
				{"id": "a.md", "forward": ["b.md"]},
				{"id": "b.md"}
			],
			"edges": [{"source": "a.md", "target": "b.md"}],
			"tags": {"a.md": ["#work"]},
			"active": "a.md"
		}`

		snap, err := Parse([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, "a.md", snap.Active)
		assert.Equal(t, []graph.EdgeRef{{Source: "a.md", Target: "b.md"}}, snap.Edges)

		g := graph.Build(snap.Nodes)
		assert.Equal(t, 2, g.NodeCount())
	})

	t.Run("MappingNodes", func(t *testing.T) {
		t.Parallel()
		doc := `{"nodes": {"a.md": {"forward": ["b.md"]}, "b.md": {}}}`

		snap, err := Parse([]byte(doc))
		require.NoError(t, err)

		g := graph.Build(snap.Nodes)
		assert.True(t, g.HasNode("a.md"))
		assert.True(t, g.HasNode("b.md"))
	})

	t.Run("RecordNodes", func(t *testing.T) {
		t.Parallel()
		doc := `{"nodes": {"id": "only.md", "forward": ["other.md"]}}`

		snap, err := Parse([]byte(doc))
		require.NoError(t, err)

		g := graph.Build(snap.Nodes)
		assert.True(t, g.HasNode("only.md"))
		assert.True(t, g.HasNode("other.md"))
	})

	t.Run("MissingNodes", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`{"edges": []}`))
		assert.Error(t, err)
	})

	t.Run("EdgeMissingTarget", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`{"nodes": [], "edges": [{"source": "a.md"}]}`))
		assert.Error(t, err)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		t.Parallel()
		_, err := Parse([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "snap.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"nodes": [{"id": "a.md"}]}`), 0o644))

		snap, err := Load(path)
		require.NoError(t, err)
		assert.NotNil(t, snap.Nodes)
	})

	t.Run("MissingFile", func(t *testing.T) {
		t.Parallel()
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}

func TestTagLookup(t *testing.T) {
	t.Parallel()

	snap := &Snapshot{Tags: map[string][]string{"a.md": {"#work"}}}
	lookup := snap.TagLookup()

	assert.Equal(t, []string{"#work"}, lookup("a.md"))
	assert.Nil(t, lookup("b.md"))
}
