package logs

import (
	"sync"
	"time"

	"dat-workbench/core/backend"

	"go.uber.org/zap"
)

const (
	// MessageExportFinished is logged when an export succeeds.
	MessageExportFinished = "Finished export"
	// MessageGenerateFinished is logged when a generation succeeds.
	MessageGenerateFinished = "Finished generation"
)

// Entry records one terminal processing event.
type Entry struct {
	Label      string                `json:"descriptor"`
	Kind       backend.OperationKind `json:"kind"`
	Message    string                `json:"message"`
	SourcePath string                `json:"source_path"`
	IsError    bool                  `json:"is_error"`
	Time       time.Time             `json:"time"`
}

// Query selects a page of entries.
type Query struct {
	// ErrorsOnly keeps only failed operations.
	ErrorsOnly bool
	// NewestFirst reverses arrival order.
	NewestFirst bool
	// Limit caps the number of entries; 0 means no limit.
	Limit int
}

// Aggregator collects log entries for the lifetime of the process.
type Aggregator struct {
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	entries   []Entry
	listeners []func(Entry)
}

// New creates an empty aggregator.
func New(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger, now: time.Now}
}

// OnAppend registers fn to be called, in arrival order, for every new entry.
func (a *Aggregator) OnAppend(fn func(Entry)) {
	a.mu.Lock()
	a.listeners = append(a.listeners, fn)
	a.mu.Unlock()
}

// OnEvent appends an entry for terminal events; Working events are ignored.
func (a *Aggregator) OnEvent(ev backend.ProcessingEvent) {
	if !ev.Valid() || !ev.Phase.IsTerminal() {
		return
	}

	entry := Entry{
		Label: ev.Descriptor.Label(),
		Kind:  ev.Kind,
		Time:  a.now(),
	}
	if ev.Phase.Kind == backend.PhaseError {
		entry.Message = ev.Phase.Message
		entry.IsError = true
	} else {
		entry.Message = successMessage(ev.Kind)
		entry.SourcePath = ev.Phase.Path
	}

	a.mu.Lock()
	a.entries = append(a.entries, entry)
	listeners := append(([]func(Entry))(nil), a.listeners...)
	a.mu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
}

func successMessage(kind backend.OperationKind) string {
	if kind == backend.OperationGenerate {
		return MessageGenerateFinished
	}
	return MessageExportFinished
}

// Len returns the number of entries.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.entries)
}

// Entries returns a copy of all entries in arrival order.
func (a *Aggregator) Entries() []Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Entry(nil), a.entries...)
}

// Page returns the entries selected by q.
func (a *Aggregator) Page(q Query) []Entry {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]Entry, 0, len(a.entries))
	for i := range a.entries {
		idx := i
		if q.NewestFirst {
			idx = len(a.entries) - 1 - i
		}
		e := a.entries[idx]
		if q.ErrorsOnly && !e.IsError {
			continue
		}
		out = append(out, e)
		if q.Limit > 0 && len(out) == q.Limit {
			break
		}
	}
	return out
}
