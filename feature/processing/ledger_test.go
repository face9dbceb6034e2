package processing

import (
	"math/rand"
	"testing"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type gate bool

func (g gate) Ready() bool { return bool(g) }

func event(d descriptor.Descriptor, kind backend.OperationKind, phase backend.Phase) backend.ProcessingEvent {
	return backend.ProcessingEvent{Descriptor: d, Kind: kind, Phase: phase}
}

func TestOnEvent_WorkingThenFinished(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	d := descriptor.MustZoned(descriptor.EntityNames, 7)

	l.OnEvent(event(d, backend.OperationExport, backend.Working()))
	assert.True(t, l.IsInFlight(backend.OperationExport, d))
	assert.False(t, l.IsInFlight(backend.OperationGenerate, d))
	assert.Equal(t, 1, l.Count())

	l.OnEvent(event(d, backend.OperationExport, backend.Finished("/out/7.yaml")))
	assert.False(t, l.IsInFlight(backend.OperationExport, d))
	assert.Equal(t, 0, l.Count())
}

func TestOnEvent_ErrorRestoresCounter(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	other := descriptor.MustFixed(descriptor.Armor)
	weapons := descriptor.MustFixed(descriptor.Weapons)

	l.OnEvent(event(other, backend.OperationExport, backend.Working()))
	before := l.Count()

	l.OnEvent(event(weapons, backend.OperationGenerate, backend.Working()))
	assert.Equal(t, before+1, l.Count())

	l.OnEvent(event(weapons, backend.OperationGenerate, backend.Failed("bad header")))
	assert.Equal(t, before, l.Count())
	assert.False(t, l.IsInFlight(backend.OperationGenerate, weapons))
}

func TestOnEvent_DuplicateTerminalIsNoOp(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	d := descriptor.MustFixed(descriptor.Titles)
	other := descriptor.MustFixed(descriptor.KeyItems)

	l.OnEvent(event(other, backend.OperationExport, backend.Working()))
	l.OnEvent(event(d, backend.OperationExport, backend.Working()))
	assert.Equal(t, 2, l.Count())

	finished := event(d, backend.OperationExport, backend.Finished("/out"))
	l.OnEvent(finished)
	assert.Equal(t, 1, l.Count())

	l.OnEvent(finished)
	assert.Equal(t, 1, l.Count())
	assert.True(t, l.IsInFlight(backend.OperationExport, other))
}

func TestOnEvent_TerminalWithoutWorking(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	l.OnEvent(event(descriptor.MustFixed(descriptor.Titles), backend.OperationExport, backend.Failed("x")))
	assert.Equal(t, 0, l.Count())
}

func TestOnEvent_DuplicateWorkingCountsOnce(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	d := descriptor.MustFixed(descriptor.Titles)

	l.OnEvent(event(d, backend.OperationExport, backend.Working()))
	l.OnEvent(event(d, backend.OperationExport, backend.Working()))
	assert.Equal(t, 1, l.Count())
}

func TestOnEvent_KindsAreIndependent(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	d := descriptor.MustZoned(descriptor.Dialog, 3)

	l.OnEvent(event(d, backend.OperationExport, backend.Working()))
	l.OnEvent(event(d, backend.OperationGenerate, backend.Working()))
	assert.Equal(t, 2, l.Count())

	l.OnEvent(event(d, backend.OperationGenerate, backend.Finished("/x")))
	assert.True(t, l.IsInFlight(backend.OperationExport, d))
	assert.Equal(t, 1, l.Count())
}

func TestOnEvent_Malformed(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	l.OnEvent(backend.ProcessingEvent{Kind: backend.OperationExport, Phase: backend.Working()})
	l.OnEvent(event(descriptor.MustFixed(descriptor.Titles), "Yaml", backend.Working()))
	assert.Equal(t, 0, l.Count())
	assert.Empty(t, l.InFlight())
}

func TestReset(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	l.Reset("/a")

	d := descriptor.MustFixed(descriptor.Weapons)
	l.OnEvent(event(d, backend.OperationExport, backend.Working()))
	require.Equal(t, 1, l.Count())

	l.Reset("/b")
	assert.Equal(t, 0, l.Count())
	assert.False(t, l.IsInFlight(backend.OperationExport, d))

	// A terminal event in transit for the old project is dropped.
	l.OnEvent(event(d, backend.OperationExport, backend.Finished("/out")))
	assert.Equal(t, 0, l.Count())
}

func TestReset_StaleProjectEventsDoNotTouchNewEntries(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	d := descriptor.MustFixed(descriptor.Weapons)

	l.Reset("/a")
	working := event(d, backend.OperationGenerate, backend.Working())
	working.Project = "/a"
	l.OnEvent(working)

	l.Reset("/b")
	fresh := event(d, backend.OperationGenerate, backend.Working())
	fresh.Project = "/b"
	l.OnEvent(fresh)
	require.Equal(t, 1, l.Count())

	stale := event(d, backend.OperationGenerate, backend.Finished("/a/out"))
	stale.Project = "/a"
	l.OnEvent(stale)

	assert.Equal(t, 1, l.Count())
	assert.True(t, l.IsInFlight(backend.OperationGenerate, d))

	staleWorking := event(descriptor.MustFixed(descriptor.Armor), backend.OperationGenerate, backend.Working())
	staleWorking.Project = "/a"
	l.OnEvent(staleWorking)
	assert.Equal(t, 1, l.Count())
}

func TestCounterInvariant_RandomSequence(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	r := rand.New(rand.NewSource(42))

	targets := []descriptor.Descriptor{
		descriptor.MustFixed(descriptor.Weapons),
		descriptor.MustFixed(descriptor.Armor),
		descriptor.MustZoned(descriptor.EntityNames, 1),
		descriptor.MustZoned(descriptor.EntityNames, 2),
		descriptor.MustZoned(descriptor.Dialog, 1),
	}
	kinds := []backend.OperationKind{backend.OperationExport, backend.OperationGenerate}
	phases := []backend.Phase{backend.Working(), backend.Finished("/out"), backend.Failed("boom")}

	for i := 0; i < 2000; i++ {
		if r.Intn(200) == 0 {
			l.Reset("")
		}
		l.OnEvent(event(targets[r.Intn(len(targets))], kinds[r.Intn(len(kinds))], phases[r.Intn(len(phases))]))
		require.Equal(t, len(l.InFlight()), l.Count(), "step %d", i)
		require.GreaterOrEqual(t, l.Count(), 0)
	}
}

func TestCanProcess(t *testing.T) {
	assert.True(t, New(gate(true), zap.NewNop()).CanProcess())
	assert.False(t, New(gate(false), zap.NewNop()).CanProcess())
	assert.False(t, New(nil, zap.NewNop()).CanProcess())
}

func TestInFlight_Sorted(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	l.OnEvent(event(descriptor.MustZoned(descriptor.EntityNames, 9), backend.OperationGenerate, backend.Working()))
	l.OnEvent(event(descriptor.MustZoned(descriptor.EntityNames, 2), backend.OperationExport, backend.Working()))
	l.OnEvent(event(descriptor.MustFixed(descriptor.Armor), backend.OperationExport, backend.Working()))

	keys := l.InFlight()
	require.Len(t, keys, 3)
	assert.Equal(t, backend.OperationExport, keys[0].Kind)
	assert.Equal(t, descriptor.Armor, keys[0].Category)
	assert.Equal(t, descriptor.ZoneID(2), keys[1].Index)
	assert.Equal(t, backend.OperationGenerate, keys[2].Kind)
}

func TestSelection_AcceptsIncomingProjectWhilePending(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	l.Reset("/a")
	weapons := descriptor.MustFixed(descriptor.Weapons)
	armor := descriptor.MustFixed(descriptor.Armor)

	old := event(weapons, backend.OperationGenerate, backend.Working())
	old.Project = "/a"
	l.OnEvent(old)
	require.Equal(t, 1, l.Count())

	l.SelectionStarted("b/")
	assert.Equal(t, 0, l.Count())

	// The backend already stamps the normalized path it will confirm.
	incoming := event(armor, backend.OperationGenerate, backend.Working())
	incoming.Project = "/abs/b"
	l.OnEvent(incoming)
	assert.True(t, l.IsInFlight(backend.OperationGenerate, armor))

	stale := event(weapons, backend.OperationGenerate, backend.Finished("/a/out"))
	stale.Project = "/a"
	l.OnEvent(stale)
	assert.Equal(t, 1, l.Count())

	l.SelectionSettled("/abs/b")
	assert.Equal(t, "/abs/b", l.Project())
	assert.Equal(t, 1, l.Count(), "settling keeps what started while pending")

	done := event(armor, backend.OperationGenerate, backend.Finished("/abs/b/out"))
	done.Project = "/abs/b"
	l.OnEvent(done)
	assert.Equal(t, 0, l.Count())

	// Once settled, only the confirmed project is accepted.
	other := event(armor, backend.OperationExport, backend.Working())
	other.Project = "/elsewhere"
	l.OnEvent(other)
	assert.Equal(t, 0, l.Count())
}

func TestSelection_FailedSelectionClears(t *testing.T) {
	l := New(gate(true), zap.NewNop())
	l.Reset("/a")

	l.SelectionStarted("/missing")
	ev := event(descriptor.MustFixed(descriptor.Weapons), backend.OperationExport, backend.Working())
	ev.Project = "/missing"
	l.OnEvent(ev)
	require.Equal(t, 1, l.Count())

	l.SelectionSettled("")
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, "", l.Project())
}
