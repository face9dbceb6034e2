package processing

import (
	"sort"
	"sync"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"go.uber.org/zap"
)

// Key identifies one in-flight slot.
type Key struct {
	Kind backend.OperationKind `json:"kind"`
	descriptor.Key
}

// ReadinessGate reports whether processing may be triggered.
type ReadinessGate interface {
	Ready() bool
}

// Ledger tracks in-flight operations for the active project.
type Ledger struct {
	gate   ReadinessGate
	logger *zap.Logger

	mu      sync.RWMutex
	entries map[Key]struct{}
	count   int
	project string
	// While a selection is pending, events from any project except the
	// retired one are accepted, since the backend may already stamp them
	// with the normalized path it is about to confirm.
	pending bool
	retired string
}

// New creates an empty ledger. gate is usually the folder context.
func New(gate ReadinessGate, logger *zap.Logger) *Ledger {
	return &Ledger{
		gate:    gate,
		logger:  logger,
		entries: make(map[Key]struct{}),
	}
}

// OnEvent applies one processing event.
func (l *Ledger) OnEvent(ev backend.ProcessingEvent) {
	if !ev.Valid() {
		l.logger.Debug("Ignoring malformed processing event", zap.Any("event", ev))
		return
	}
	key := Key{Kind: ev.Kind, Key: ev.Descriptor.Key()}

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.accepts(ev.Project) {
		l.logger.Debug("Dropping processing event from another project",
			zap.String("event_project", ev.Project),
			zap.String("project", l.project),
			zap.String("descriptor", ev.Descriptor.Label()),
		)
		return
	}

	_, inFlight := l.entries[key]
	if ev.Phase.IsTerminal() {
		if !inFlight {
			l.logger.Debug("Dropping terminal event without in-flight entry",
				zap.String("descriptor", ev.Descriptor.Label()),
				zap.String("kind", string(ev.Kind)),
			)
			return
		}
		delete(l.entries, key)
		l.count--
		return
	}

	if inFlight {
		return
	}
	l.entries[key] = struct{}{}
	l.count++
}

func (l *Ledger) accepts(project string) bool {
	switch {
	case project == "", project == l.project:
		return true
	case l.pending:
		return project != l.retired
	default:
		return false
	}
}

// Reset clears every entry and makes project the active project.
func (l *Ledger) Reset(project string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
	l.project = project
	l.pending = false
	l.retired = ""
}

// SelectionStarted clears the ledger as soon as a new project is requested.
// The previous project is retired and its events are dropped from now on.
func (l *Ledger) SelectionStarted(project string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.clear()
	l.retired = l.project
	l.project = project
	l.pending = true
}

// SelectionSettled moves the ledger to the confirmed project without
// clearing what started while it was pending. "" means the selection
// failed, which clears the ledger.
func (l *Ledger) SelectionSettled(project string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if project == "" {
		l.clear()
	}
	l.project = project
	l.pending = false
	l.retired = ""
}

// Project returns the project the ledger belongs to.
func (l *Ledger) Project() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.project
}

func (l *Ledger) clear() {
	if l.count > 0 {
		l.logger.Debug("Discarding in-flight operations", zap.Int("count", l.count), zap.String("project", l.project))
	}
	l.entries = make(map[Key]struct{})
	l.count = 0
}

// IsInFlight reports whether an operation of kind is running for d.
func (l *Ledger) IsInFlight(kind backend.OperationKind, d descriptor.Descriptor) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.entries[Key{Kind: kind, Key: d.Key()}]
	return ok
}

// Count returns the number of in-flight operations.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// CanProcess reports whether both folders are selected.
func (l *Ledger) CanProcess() bool {
	return l.gate != nil && l.gate.Ready()
}

// InFlight returns the in-flight keys, sorted by kind, category and index.
func (l *Ledger) InFlight() []Key {
	l.mu.RLock()
	keys := make([]Key, 0, len(l.entries))
	for k := range l.entries {
		keys = append(keys, k)
	}
	l.mu.RUnlock()

	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Index < b.Index
	})
	return keys
}
