package session

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/halo-viz/halo-go/internal/graph"
)

// watchDebounce batches rapid successive file events into one pass.
const watchDebounce = 500 * time.Millisecond

// ReloadFunc re-reads the watched document and returns the node
// collection and edge list for the next pass.
type ReloadFunc func() (nodes any, edges []graph.EdgeRef, err error)

// Watch monitors a snapshot file and triggers a recomputation whenever
// it changes. Events are coalesced with a batch timer so editors that
// write in bursts cost one pass, not several. Blocks until the context
// is cancelled.
//
// The parent directory is watched rather than the file itself: most
// editors replace files atomically, which drops a direct file watch.
func (s *Session) Watch(ctx context.Context, path string, reload ReloadFunc) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	timer := time.NewTimer(watchDebounce)
	timer.Stop() // armed only after an event

	s.log.WithField("path", target).Info("watching snapshot")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(watchDebounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("watch error")

		case <-timer.C:
			nodes, edges, err := reload()
			if err != nil {
				s.log.WithError(err).WithField("path", target).Warn("reload failed; keeping previous pass")
				continue
			}
			s.Recompute(nodes, edges)
			nodeCount, edgeCount := s.Counts()
			s.log.WithFields(logrus.Fields{
				"nodes": nodeCount,
				"edges": edgeCount,
			}).Debug("recomputed styles")
		}
	}
}
