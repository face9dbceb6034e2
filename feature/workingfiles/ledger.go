package workingfiles

import (
	"context"
	"sort"
	"sync"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"go.uber.org/zap"
)

// Enumerator lists the exported targets of the active project.
type Enumerator interface {
	EnumerateExistingExportedTargets(ctx context.Context) ([]descriptor.Descriptor, error)
}

// Ledger tracks exported files for the active project.
type Ledger struct {
	source Enumerator
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[descriptor.Key]struct{}
	epoch   uint64

	pending sync.WaitGroup
}

// New creates an empty ledger.
func New(source Enumerator, logger *zap.Logger) *Ledger {
	return &Ledger{
		source:  source,
		logger:  logger,
		entries: make(map[descriptor.Key]struct{}),
	}
}

// Reload clears the ledger and, if project is set, requests a fresh
// enumeration in the background. It returns the epoch of this reload.
func (l *Ledger) Reload(ctx context.Context, project string) uint64 {
	l.mu.Lock()
	l.epoch++
	epoch := l.epoch
	l.entries = make(map[descriptor.Key]struct{})
	l.mu.Unlock()

	if project == "" {
		return epoch
	}

	l.pending.Add(1)
	go func() {
		defer l.pending.Done()
		l.fetch(ctx, epoch, project)
	}()
	return epoch
}

func (l *Ledger) fetch(ctx context.Context, epoch uint64, project string) {
	targets, err := l.source.EnumerateExistingExportedTargets(ctx)
	if err != nil {
		l.logger.Warn("Failed to enumerate working files", zap.String("project", project), zap.Error(err))
		return
	}
	if !l.apply(epoch, targets) {
		l.logger.Debug("Discarding superseded working file enumeration",
			zap.String("project", project),
			zap.Uint64("epoch", epoch),
		)
		return
	}
	l.logger.Debug("Loaded working files", zap.String("project", project), zap.Int("count", len(targets)))
}

// apply replaces the ledger contents if epoch is still current.
func (l *Ledger) apply(epoch uint64, targets []descriptor.Descriptor) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if epoch != l.epoch {
		return false
	}
	entries := make(map[descriptor.Key]struct{}, len(targets))
	for _, d := range targets {
		if !d.IsValid() {
			continue
		}
		entries[d.Key()] = struct{}{}
	}
	l.entries = entries
	return true
}

// OnFileChangeEvent records that d's export file appeared or disappeared.
func (l *Ledger) OnFileChangeEvent(ev backend.FileChangeEvent) {
	if !ev.Descriptor.IsValid() {
		l.logger.Debug("Ignoring malformed file-change event", zap.Any("event", ev))
		return
	}
	key := ev.Descriptor.Key()

	l.mu.Lock()
	defer l.mu.Unlock()
	if ev.IsDelete {
		delete(l.entries, key)
		return
	}
	l.entries[key] = struct{}{}
}

// HasWorkingFile reports whether d has an exported file.
func (l *Ledger) HasWorkingFile(d descriptor.Descriptor) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[d.Key()]
	return ok
}

// Epoch returns the current reload epoch.
func (l *Ledger) Epoch() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.epoch
}

// Keys returns every key with an exported file, sorted.
func (l *Ledger) Keys() []descriptor.Key {
	l.mu.RLock()
	keys := make([]descriptor.Key, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	l.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Category != keys[j].Category {
			return keys[i].Category < keys[j].Category
		}
		return keys[i].Index < keys[j].Index
	})
	return keys
}

// Wait blocks until every outstanding enumeration has returned.
func (l *Ledger) Wait() {
	l.pending.Wait()
}
