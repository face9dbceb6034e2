package workingfiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"dat-workbench/core/backend"
	"dat-workbench/core/backend/mocks"
	"dat-workbench/core/descriptor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// gatedEnumerator returns the next queued response once its gate opens.
type gatedEnumerator struct {
	responses chan response
}

type response struct {
	gate    chan struct{}
	targets []descriptor.Descriptor
	err     error
}

func newGatedEnumerator(responses ...response) *gatedEnumerator {
	ch := make(chan response, len(responses))
	for _, r := range responses {
		ch <- r
	}
	return &gatedEnumerator{responses: ch}
}

func (g *gatedEnumerator) EnumerateExistingExportedTargets(ctx context.Context) ([]descriptor.Descriptor, error) {
	r := <-g.responses
	if r.gate != nil {
		<-r.gate
	}
	return r.targets, r.err
}

var (
	weapons = descriptor.MustFixed(descriptor.Weapons)
	armor   = descriptor.MustFixed(descriptor.Armor)
	zone7   = descriptor.MustZoned(descriptor.EntityNames, 7)
)

func TestReload_Populates(t *testing.T) {
	b := new(mocks.Backend)
	b.On("EnumerateExistingExportedTargets", mock.Anything).Return([]descriptor.Descriptor{weapons, zone7}, nil)

	l := New(b, zap.NewNop())
	l.Reload(context.Background(), "/p")
	l.Wait()

	assert.True(t, l.HasWorkingFile(weapons))
	assert.True(t, l.HasWorkingFile(zone7))
	assert.False(t, l.HasWorkingFile(armor))
	assert.False(t, l.HasWorkingFile(descriptor.MustZoned(descriptor.EntityNames, 8)))
	b.AssertExpectations(t)
}

func TestReload_ClearsSynchronously(t *testing.T) {
	gate := make(chan struct{})
	e := newGatedEnumerator(
		response{targets: []descriptor.Descriptor{weapons}},
		response{gate: gate, targets: []descriptor.Descriptor{armor}},
	)
	l := New(e, zap.NewNop())

	l.Reload(context.Background(), "/a")
	l.Wait()
	require.True(t, l.HasWorkingFile(weapons))

	l.Reload(context.Background(), "/b")
	assert.False(t, l.HasWorkingFile(weapons), "cleared before the enumeration returns")

	close(gate)
	l.Wait()
	assert.True(t, l.HasWorkingFile(armor))
}

func TestReload_EpochGuard(t *testing.T) {
	gateA := make(chan struct{})
	e := newGatedEnumerator(
		response{gate: gateA, targets: []descriptor.Descriptor{weapons}},
		response{targets: []descriptor.Descriptor{armor}},
	)
	l := New(e, zap.NewNop())

	epochA := l.Reload(context.Background(), "/a")
	// Make sure A's request has taken the first response before B asks.
	assert.Eventually(t, func() bool { return len(e.responses) == 1 }, time.Second, time.Millisecond)
	epochB := l.Reload(context.Background(), "/b")
	assert.Greater(t, epochB, epochA)

	assert.Eventually(t, func() bool { return l.HasWorkingFile(armor) }, time.Second, time.Millisecond)

	close(gateA)
	l.Wait()

	assert.True(t, l.HasWorkingFile(armor))
	assert.False(t, l.HasWorkingFile(weapons), "A's late response must be discarded")
	assert.Equal(t, epochB, l.Epoch())
}

func TestReload_NoProject(t *testing.T) {
	b := new(mocks.Backend)
	l := New(b, zap.NewNop())

	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: weapons})
	l.Reload(context.Background(), "")
	l.Wait()

	assert.Empty(t, l.Keys())
	b.AssertNotCalled(t, "EnumerateExistingExportedTargets", mock.Anything)
}

func TestReload_EnumerationError(t *testing.T) {
	e := newGatedEnumerator(response{err: errors.New("no DAT context")})
	l := New(e, zap.NewNop())

	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: weapons})
	l.Reload(context.Background(), "/p")
	l.Wait()

	assert.Empty(t, l.Keys())
}

func TestOnFileChangeEvent(t *testing.T) {
	l := New(newGatedEnumerator(), zap.NewNop())

	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: zone7})
	assert.True(t, l.HasWorkingFile(zone7))

	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: zone7, IsDelete: true})
	assert.False(t, l.HasWorkingFile(zone7))

	// Deleting an unknown key is harmless.
	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: armor, IsDelete: true})
	assert.False(t, l.HasWorkingFile(armor))

	// Malformed events are ignored.
	l.OnFileChangeEvent(backend.FileChangeEvent{})
	assert.Empty(t, l.Keys())
}

func TestOnFileChangeEvent_AppliesDuringPendingReload(t *testing.T) {
	gate := make(chan struct{})
	e := newGatedEnumerator(response{gate: gate, targets: []descriptor.Descriptor{weapons}})
	l := New(e, zap.NewNop())

	l.Reload(context.Background(), "/p")
	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: armor})
	assert.True(t, l.HasWorkingFile(armor))

	close(gate)
	l.Wait()
	assert.True(t, l.HasWorkingFile(weapons))
}

func TestKeys_Sorted(t *testing.T) {
	l := New(newGatedEnumerator(), zap.NewNop())
	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: weapons})
	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: zone7})
	l.OnFileChangeEvent(backend.FileChangeEvent{Descriptor: armor})

	assert.Equal(t, []descriptor.Key{armor.Key(), zone7.Key(), weapons.Key()}, l.Keys())
}
