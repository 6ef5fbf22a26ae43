package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryBackend is an in-memory implementation of Backend for testing.
type MemoryBackend struct {
	mu      sync.RWMutex
	presets map[string]*Preset
}

// NewMemoryBackend creates a new in-memory preset store.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{presets: make(map[string]*Preset)}
}

// Initialize implements Backend.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = nil
	return nil
}

// SavePreset implements Backend.
func (m *MemoryBackend) SavePreset(ctx context.Context, preset *Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *preset
	stored.SavedAt = time.Now().UTC()
	m.presets[preset.Name] = &stored
	return nil
}

// GetPreset implements Backend.
func (m *MemoryBackend) GetPreset(ctx context.Context, name string) (*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.presets[name], nil
}

// ListPresets implements Backend.
func (m *MemoryBackend) ListPresets(ctx context.Context) ([]*Preset, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	presets := make([]*Preset, 0, len(m.presets))
	for _, p := range m.presets {
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// DeletePreset implements Backend.
func (m *MemoryBackend) DeletePreset(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.presets[name]; !ok {
		return false, nil
	}
	delete(m.presets, name)
	return true, nil
}
