package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halo-viz/halo-go/internal/rules"
	"github.com/halo-viz/halo-go/internal/style"
)

func samplePreset(name string) *Preset {
	color := style.Color(0x112233)
	return &Preset{
		Name:   name,
		Config: style.DefaultConfig(),
		Rules: []rules.StyleRule{
			{ID: "r1", Kind: rules.KindFolder, Pattern: "Projects/", Enabled: true, Color: &color},
		},
	}
}

// exerciseBackend runs the shared contract against an initialized
// backend.
func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetAbsent", func(t *testing.T) {
		p, err := backend.GetPreset(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("SaveAndGet", func(t *testing.T) {
		require.NoError(t, backend.SavePreset(ctx, samplePreset("focus")))

		p, err := backend.GetPreset(ctx, "focus")
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, "focus", p.Name)
		assert.Equal(t, 2, p.Config.MaxHops)
		require.Len(t, p.Rules, 1)
		require.NotNil(t, p.Rules[0].Color)
		assert.Equal(t, style.Color(0x112233), *p.Rules[0].Color)
		assert.False(t, p.SavedAt.IsZero())
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		updated := samplePreset("focus")
		updated.Config.MaxHops = 4
		require.NoError(t, backend.SavePreset(ctx, updated))

		p, err := backend.GetPreset(ctx, "focus")
		require.NoError(t, err)
		assert.Equal(t, 4, p.Config.MaxHops)
	})

	t.Run("ListSortedByName", func(t *testing.T) {
		require.NoError(t, backend.SavePreset(ctx, samplePreset("zeta")))
		require.NoError(t, backend.SavePreset(ctx, samplePreset("alpha")))

		presets, err := backend.ListPresets(ctx)
		require.NoError(t, err)
		require.Len(t, presets, 3)
		assert.Equal(t, "alpha", presets[0].Name)
		assert.Equal(t, "focus", presets[1].Name)
		assert.Equal(t, "zeta", presets[2].Name)
	})

	t.Run("Delete", func(t *testing.T) {
		existed, err := backend.DeletePreset(ctx, "zeta")
		require.NoError(t, err)
		assert.True(t, existed)

		existed, err = backend.DeletePreset(ctx, "zeta")
		require.NoError(t, err)
		assert.False(t, existed)

		p, err := backend.GetPreset(ctx, "zeta")
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}

func TestMemoryBackend(t *testing.T) {
	t.Parallel()

	backend := NewMemoryBackend()
	require.NoError(t, backend.Initialize("", false))
	defer backend.Close()

	exerciseBackend(t, backend)
}

func TestBadgerBackend(t *testing.T) {
	t.Parallel()

	backend := NewBadgerBackend()
	require.NoError(t, backend.Initialize(t.TempDir(), false))
	defer backend.Close()

	exerciseBackend(t, backend)
}

func TestBadgerBackend_SaveValidation(t *testing.T) {
	t.Parallel()

	backend := NewBadgerBackend()
	require.NoError(t, backend.Initialize(t.TempDir(), false))
	defer backend.Close()

	ctx := context.Background()
	assert.Error(t, backend.SavePreset(ctx, nil))
	assert.Error(t, backend.SavePreset(ctx, &Preset{}))
}

func TestBadgerBackend_Reopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	backend := NewBadgerBackend()
	require.NoError(t, backend.Initialize(dir, false))
	require.NoError(t, backend.SavePreset(ctx, samplePreset("durable")))
	require.NoError(t, backend.Close())

	reopened := NewBadgerBackend()
	require.NoError(t, reopened.Initialize(dir, false))
	defer reopened.Close()

	p, err := reopened.GetPreset(ctx, "durable")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "durable", p.Name)
}

func TestBadgerBackend_CloseIdempotent(t *testing.T) {
	t.Parallel()

	backend := NewBadgerBackend()
	require.NoError(t, backend.Initialize(t.TempDir(), false))
	require.NoError(t, backend.Close())
	require.NoError(t, backend.Close())
}
