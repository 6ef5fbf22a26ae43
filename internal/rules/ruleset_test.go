package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-viz/halo-go/internal/style"
)

func TestParseRuleSet(t *testing.T) {
	t.Parallel()

	t.Run("Valid", func(t *testing.T) {
		t.Parallel()
		doc := `{"rules": [
			{"id": "r1", "kind": "folder", "pattern": "Projects/", "color": "#112233"},
			{"kind": "tag", "pattern": "#work", "enabled": false, "size": 1.5}
		]}`

		ruleList, err := ParseRuleSet([]byte(doc))
		require.NoError(t, err)
		require.Len(t, ruleList, 2)

		assert.Equal(t, "r1", ruleList[0].ID)
		assert.True(t, ruleList[0].Enabled, "omitted enabled defaults to true")
		require.NotNil(t, ruleList[0].Color)
		assert.Equal(t, style.Color(0x112233), *ruleList[0].Color)

		assert.NotEmpty(t, ruleList[1].ID, "missing IDs are generated")
		assert.False(t, ruleList[1].Enabled)
		require.NotNil(t, ruleList[1].Size)
		assert.Equal(t, 1.5, *ruleList[1].Size)
	})

	t.Run("MissingPattern", func(t *testing.T) {
		t.Parallel()
		doc := `{"rules": [{"kind": "folder"}]}`

		_, err := ParseRuleSet([]byte(doc))
		assert.Error(t, err)
	})

	t.Run("MissingRulesField", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRuleSet([]byte(`{}`))
		assert.Error(t, err)
	})

	t.Run("InvalidJSON", func(t *testing.T) {
		t.Parallel()
		_, err := ParseRuleSet([]byte(`{`))
		assert.Error(t, err)
	})
}

func TestLoadRuleSet(t *testing.T) {
	t.Parallel()

	t.Run("MissingFileYieldsEmpty", func(t *testing.T) {
		t.Parallel()
		ruleList, err := LoadRuleSet(filepath.Join(t.TempDir(), "nope.json"))
		require.NoError(t, err)
		assert.Empty(t, ruleList)
	})

	t.Run("RoundTrip", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "rules.json")
		doc := `{"rules": [{"kind": "file", "pattern": "X", "shape": "diamond"}]}`
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

		ruleList, err := LoadRuleSet(path)
		require.NoError(t, err)
		require.Len(t, ruleList, 1)
		assert.Equal(t, KindFile, ruleList[0].Kind)
		require.NotNil(t, ruleList[0].Shape)
		assert.Equal(t, style.Shape("diamond"), *ruleList[0].Shape)
	})
}
