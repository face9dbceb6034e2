package local

import (
	"context"
	"sync"

	"dat-workbench/core/backend"

	"go.uber.org/zap"
)

type subscriber struct {
	processing  chan backend.ProcessingEvent
	fileChanges chan backend.FileChangeEvent
	// done is closed before the channels are, releasing blocked publishers.
	done     chan struct{}
	doneOnce sync.Once
}

func (s *subscriber) stop() {
	s.doneOnce.Do(func() { close(s.done) })
}

// broker fans events out to subscribers. Working events and file changes
// never block the publisher: a subscriber whose buffer is full misses them.
// Terminal processing events wait for room until the subscriber leaves or
// ctx is done.
type broker struct {
	ctx    context.Context
	logger *zap.Logger
	buffer int

	mu     sync.RWMutex
	nextID int
	subs   map[int]*subscriber
}

func newBroker(ctx context.Context, buffer int, logger *zap.Logger) *broker {
	return &broker{
		ctx:    ctx,
		logger: logger,
		buffer: buffer,
		subs:   make(map[int]*subscriber),
	}
}

func (b *broker) subscribe() backend.Subscription {
	s := &subscriber{
		processing:  make(chan backend.ProcessingEvent, b.buffer),
		fileChanges: make(chan backend.FileChangeEvent, b.buffer),
		done:        make(chan struct{}),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = s
	b.mu.Unlock()

	var once sync.Once
	return backend.Subscription{
		Processing:  s.processing,
		FileChanges: s.fileChanges,
		Unsubscribe: func() {
			once.Do(func() {
				s.stop()
				b.remove(id)
			})
		},
	}
}

func (b *broker) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(s.processing)
	close(s.fileChanges)
}

func (b *broker) publishProcessing(ev backend.ProcessingEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, s := range b.subs {
		select {
		case s.processing <- ev:
			continue
		default:
		}
		if ev.Phase.IsTerminal() && b.deliverTerminal(s, ev) {
			continue
		}
		b.logger.Warn("Subscriber too slow, processing event dropped",
			zap.Int("subscriber", id),
			zap.String("descriptor", ev.Descriptor.Label()),
			zap.String("phase", string(ev.Phase.Kind)),
		)
	}
}

func (b *broker) deliverTerminal(s *subscriber, ev backend.ProcessingEvent) bool {
	select {
	case s.processing <- ev:
		return true
	case <-s.done:
		return false
	case <-b.ctx.Done():
		return false
	}
}

func (b *broker) publishFileChange(ev backend.FileChangeEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, s := range b.subs {
		select {
		case s.fileChanges <- ev:
		default:
			b.logger.Warn("Subscriber too slow, file-change event dropped",
				zap.Int("subscriber", id),
				zap.String("descriptor", ev.Descriptor.Label()),
			)
		}
	}
}

// close releases every subscriber.
func (b *broker) close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, s := range b.subs {
		s.stop()
		delete(b.subs, id)
		close(s.processing)
		close(s.fileChanges)
	}
}
