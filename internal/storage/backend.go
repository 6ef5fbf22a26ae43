// Package storage provides preset persistence for Halo.
//
// It defines the Backend interface that all storage implementations
// must satisfy: named presets bundling a configuration snapshot and a
// rule set.
package storage

import (
	"context"
	"time"

	"github.com/halo-viz/halo-go/internal/rules"
	"github.com/halo-viz/halo-go/internal/style"
)

// Preset is one named configuration + rule-set bundle.
type Preset struct {
	// Name is the unique preset name.
	Name string `json:"name"`

	// Config is the styling configuration snapshot.
	Config style.Config `json:"config"`

	// Rules is the ordered rule list.
	Rules []rules.StyleRule `json:"rules"`

	// SavedAt is when the preset was last written.
	SavedAt time.Time `json:"saved_at"`
}

// Backend defines the interface for preset storage implementations.
//
// Implementations must be safe for concurrent access.
type Backend interface {
	// Initialize opens or creates the backend at the given path.
	// If readOnly is true, the backend is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// SavePreset writes a preset, replacing any with the same name.
	SavePreset(ctx context.Context, preset *Preset) error

	// GetPreset returns a preset by name, or nil if absent.
	GetPreset(ctx context.Context, name string) (*Preset, error)

	// ListPresets returns all presets sorted by name.
	ListPresets(ctx context.Context) ([]*Preset, error)

	// DeletePreset removes a preset. Returns true if it existed.
	DeletePreset(ctx context.Context, name string) (bool, error)
}
