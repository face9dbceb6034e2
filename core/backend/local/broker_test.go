package local

import (
	"context"
	"testing"
	"time"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func processingEvent(phase backend.Phase) backend.ProcessingEvent {
	return backend.ProcessingEvent{
		Descriptor: descriptor.MustFixed(descriptor.Weapons),
		Kind:       backend.OperationGenerate,
		Phase:      phase,
		Project:    "/p",
	}
}

func TestBroker_DropsWorkingWhenFull(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	b := newBroker(context.Background(), 1, zap.New(core))
	sub := b.subscribe()
	defer sub.Unsubscribe()

	b.publishProcessing(processingEvent(backend.Working()))
	b.publishProcessing(processingEvent(backend.Working()))

	assert.Len(t, sub.Processing, 1)
	assert.Equal(t, 1, logs.FilterMessage("Subscriber too slow, processing event dropped").Len())
}

func TestBroker_TerminalWaitsForRoom(t *testing.T) {
	b := newBroker(context.Background(), 1, zap.NewNop())
	sub := b.subscribe()
	defer sub.Unsubscribe()

	b.publishProcessing(processingEvent(backend.Working()))

	published := make(chan struct{})
	go func() {
		b.publishProcessing(processingEvent(backend.Finished("/out")))
		close(published)
	}()

	select {
	case <-published:
		t.Fatal("terminal event published into a full buffer")
	case <-time.After(50 * time.Millisecond):
	}

	first := <-sub.Processing
	assert.Equal(t, backend.PhaseWorking, first.Phase.Kind)

	select {
	case ev := <-sub.Processing:
		assert.True(t, ev.Phase.IsTerminal())
	case <-time.After(time.Second):
		t.Fatal("terminal event never delivered")
	}
	require.Eventually(t, func() bool {
		select {
		case <-published:
			return true
		default:
			return false
		}
	}, time.Second, time.Millisecond)
}

func TestBroker_TerminalReleasedByUnsubscribe(t *testing.T) {
	b := newBroker(context.Background(), 1, zap.NewNop())
	sub := b.subscribe()
	b.publishProcessing(processingEvent(backend.Working()))

	published := make(chan struct{})
	go func() {
		b.publishProcessing(processingEvent(backend.Failed("bad header")))
		close(published)
	}()
	time.Sleep(20 * time.Millisecond)
	sub.Unsubscribe()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("publisher still blocked after unsubscribe")
	}
}

func TestBroker_TerminalReleasedByCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	b := newBroker(ctx, 1, zap.NewNop())
	sub := b.subscribe()
	defer sub.Unsubscribe()
	b.publishProcessing(processingEvent(backend.Working()))

	published := make(chan struct{})
	go func() {
		b.publishProcessing(processingEvent(backend.Finished("/out")))
		close(published)
	}()
	cancel()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("publisher still blocked after cancel")
	}
	assert.Len(t, sub.Processing, 1)
}
