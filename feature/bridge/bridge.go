package bridge

import (
	"sync"

	"dat-workbench/core/backend"

	"go.uber.org/zap"
)

// ProcessingSink consumes processing events.
type ProcessingSink interface {
	OnEvent(ev backend.ProcessingEvent)
}

// ProcessingSinkFunc adapts a function to ProcessingSink.
type ProcessingSinkFunc func(ev backend.ProcessingEvent)

// OnEvent calls f(ev).
func (f ProcessingSinkFunc) OnEvent(ev backend.ProcessingEvent) { f(ev) }

// FileChangeSink consumes file-change events.
type FileChangeSink interface {
	OnFileChangeEvent(ev backend.FileChangeEvent)
}

// Bridge routes one subscription to its sinks.
type Bridge struct {
	sub    backend.Subscription
	logger *zap.Logger

	processing  []ProcessingSink
	fileChanges []FileChangeSink

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}
}

// New creates a bridge over sub. Nothing is read until Start.
func New(sub backend.Subscription, logger *zap.Logger) *Bridge {
	return &Bridge{
		sub:    sub,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// OnProcessing registers sinks for processing events. Must be called before Start.
func (b *Bridge) OnProcessing(sinks ...ProcessingSink) *Bridge {
	b.processing = append(b.processing, sinks...)
	return b
}

// OnFileChange registers sinks for file-change events. Must be called before Start.
func (b *Bridge) OnFileChange(sinks ...FileChangeSink) *Bridge {
	b.fileChanges = append(b.fileChanges, sinks...)
	return b
}

// Start launches the forwarding goroutine. Later calls are no-ops.
func (b *Bridge) Start() {
	b.startOnce.Do(func() {
		b.logger.Debug("Event bridge started",
			zap.Int("processing_sinks", len(b.processing)),
			zap.Int("file_change_sinks", len(b.fileChanges)),
		)
		go b.run()
	})
}

func (b *Bridge) run() {
	defer close(b.done)

	processing := b.sub.Processing
	fileChanges := b.sub.FileChanges

	for processing != nil || fileChanges != nil {
		select {
		case ev, ok := <-processing:
			if !ok {
				processing = nil
				continue
			}
			for _, s := range b.processing {
				s.OnEvent(ev)
			}
		case ev, ok := <-fileChanges:
			if !ok {
				fileChanges = nil
				continue
			}
			for _, s := range b.fileChanges {
				s.OnFileChangeEvent(ev)
			}
		}
	}

	b.logger.Debug("Event bridge stopped")
}

// Done is closed once the forwarding goroutine has exited.
func (b *Bridge) Done() <-chan struct{} {
	return b.done
}

// Close unsubscribes and waits for the goroutine to drain. Close on a
// bridge that was never started only unsubscribes.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		if b.sub.Unsubscribe != nil {
			b.sub.Unsubscribe()
		}
	})

	started := true
	b.startOnce.Do(func() { started = false })
	if started {
		<-b.done
	}
}
