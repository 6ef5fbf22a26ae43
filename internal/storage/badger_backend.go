package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// prefixPreset namespaces preset keys.
const prefixPreset = "preset:"

// BadgerBackend is a BadgerDB-backed preset store.
type BadgerBackend struct {
	mu          sync.RWMutex
	db          *badger.DB
	initialized bool
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	var err error
	b.db, err = badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}

	b.initialized = true
	return nil
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}
	err := b.db.Close()
	b.db = nil
	b.initialized = false
	return err
}

// SavePreset implements Backend.
func (b *BadgerBackend) SavePreset(ctx context.Context, preset *Preset) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if preset == nil || preset.Name == "" {
		return fmt.Errorf("preset name required")
	}
	preset.SavedAt = time.Now().UTC()

	value, err := json.Marshal(preset)
	if err != nil {
		return fmt.Errorf("encoding preset: %w", err)
	}

	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixPreset+preset.Name), value)
	})
	if err != nil {
		return fmt.Errorf("writing preset %s: %w", preset.Name, err)
	}
	return nil
}

// GetPreset implements Backend.
func (b *BadgerBackend) GetPreset(ctx context.Context, name string) (*Preset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var preset *Preset
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixPreset + name))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			var p Preset
			if err := json.Unmarshal(val, &p); err != nil {
				return err
			}
			preset = &p
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("reading preset %s: %w", name, err)
	}
	return preset, nil
}

// ListPresets implements Backend.
func (b *BadgerBackend) ListPresets(ctx context.Context) ([]*Preset, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var presets []*Preset
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefixPreset)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var p Preset
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &p)
			}); err != nil {
				continue // skip unreadable entries
			}
			presets = append(presets, &p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing presets: %w", err)
	}

	sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
	return presets, nil
}

// DeletePreset implements Backend.
func (b *BadgerBackend) DeletePreset(ctx context.Context, name string) (bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	existed := false
	err := b.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixPreset + name)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		existed = true
		return txn.Delete(key)
	})
	if err != nil {
		return false, fmt.Errorf("deleting preset %s: %w", name, err)
	}
	return existed, nil
}
