package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-viz/halo-go/internal/style"
)

func colorPtr(c style.Color) *style.Color { return &c }

func noTags(string) []string { return nil }

func TestResolve_Precedence(t *testing.T) {
	t.Parallel()

	ruleList := []StyleRule{
		{Kind: KindFolder, Pattern: "Projects/", Enabled: true, Color: colorPtr(0x111111)},
		{Kind: KindFolder, Pattern: "Projects/", Enabled: true, Color: colorPtr(0x222222)},
	}

	override, matched := Resolve(ruleList, "Projects/X.md", noTags)

	require.True(t, matched)
	require.NotNil(t, override.Color)
	assert.Equal(t, style.Color(0x111111), *override.Color, "earlier rule wins")
}

func TestResolve_DisabledSkipped(t *testing.T) {
	t.Parallel()

	ruleList := []StyleRule{
		{Kind: KindFolder, Pattern: "Projects/", Enabled: false, Color: colorPtr(0x111111)},
		{Kind: KindFolder, Pattern: "Projects/", Enabled: true, Color: colorPtr(0x222222)},
	}

	override, matched := Resolve(ruleList, "Projects/X.md", noTags)

	require.True(t, matched)
	assert.Equal(t, style.Color(0x222222), *override.Color)
}

func TestResolve_NoMatch(t *testing.T) {
	t.Parallel()

	ruleList := []StyleRule{
		{Kind: KindFolder, Pattern: "Archive/", Enabled: true},
	}

	_, matched := Resolve(ruleList, "Projects/X.md", noTags)
	assert.False(t, matched)
}

func TestResolve_UnknownKindMatchesNothing(t *testing.T) {
	t.Parallel()

	ruleList := []StyleRule{
		{Kind: "regex", Pattern: ".*", Enabled: true, Color: colorPtr(0x111111)},
	}

	_, matched := Resolve(ruleList, "Projects/X.md", noTags)
	assert.False(t, matched)
}

func TestMatches_Folder(t *testing.T) {
	t.Parallel()

	rule := StyleRule{Kind: KindFolder, Pattern: "Projects/", Enabled: true}

	assert.True(t, rule.Matches("Projects/X.md", nil))
	assert.True(t, rule.Matches("Projects/Sub/Y.md", nil))
	assert.False(t, rule.Matches("projects/X.md", nil), "prefix match is case-sensitive")
	assert.False(t, rule.Matches("Other/Projects/X.md", nil))
}

func TestMatches_Tag(t *testing.T) {
	t.Parallel()

	tags := func(nodeID string) []string {
		if nodeID == "note.md" {
			return []string{"#work", "project/alpha"}
		}
		return nil
	}

	t.Run("ExactTag", func(t *testing.T) {
		t.Parallel()
		rule := StyleRule{Kind: KindTag, Pattern: "work", Enabled: true}
		assert.True(t, rule.Matches("note.md", tags))
	})

	t.Run("NormalizedHash", func(t *testing.T) {
		t.Parallel()
		rule := StyleRule{Kind: KindTag, Pattern: "#work", Enabled: true}
		assert.True(t, rule.Matches("note.md", tags))
	})

	t.Run("HierarchicalPrefix", func(t *testing.T) {
		t.Parallel()
		rule := StyleRule{Kind: KindTag, Pattern: "#project", Enabled: true}
		assert.True(t, rule.Matches("note.md", tags), "#project matches #project/alpha")
	})

	t.Run("NoBarePrefix", func(t *testing.T) {
		t.Parallel()
		rule := StyleRule{Kind: KindTag, Pattern: "#wor", Enabled: true}
		assert.False(t, rule.Matches("note.md", tags), "plain prefixes without / do not match")
	})

	t.Run("NilLookup", func(t *testing.T) {
		t.Parallel()
		rule := StyleRule{Kind: KindTag, Pattern: "#work", Enabled: true}
		assert.False(t, rule.Matches("note.md", nil))
	})

	t.Run("NoTags", func(t *testing.T) {
		t.Parallel()
		rule := StyleRule{Kind: KindTag, Pattern: "#work", Enabled: true}
		assert.False(t, rule.Matches("other.md", tags))
	})
}

func TestMatches_File(t *testing.T) {
	t.Parallel()

	rule := StyleRule{Kind: KindFile, Pattern: "X", Enabled: true}

	// The four equivalent forms.
	assert.True(t, StyleRule{Kind: KindFile, Pattern: "Projects/X.md", Enabled: true}.matchesT(t, "Projects/X.md"))
	assert.True(t, StyleRule{Kind: KindFile, Pattern: "Projects/X", Enabled: true}.matchesT(t, "Projects/X.md"))
	assert.True(t, StyleRule{Kind: KindFile, Pattern: "X.md", Enabled: true}.matchesT(t, "Projects/X.md"))
	assert.True(t, rule.matchesT(t, "Projects/X.md"))

	assert.False(t, rule.matchesT(t, "Projects/XY.md"))
	assert.False(t, rule.matchesT(t, "Projects/X.txt"))
}

// matchesT adapts Matches for table-style assertions.
func (r StyleRule) matchesT(t *testing.T, nodeID string) bool {
	t.Helper()
	return r.Matches(nodeID, nil)
}

func TestMatches_EmptyInputs(t *testing.T) {
	t.Parallel()

	rule := StyleRule{Kind: KindFolder, Pattern: "", Enabled: true}
	assert.False(t, rule.Matches("Projects/X.md", nil))

	rule = StyleRule{Kind: KindFolder, Pattern: "Projects/", Enabled: true}
	assert.False(t, rule.Matches("", nil))
}
