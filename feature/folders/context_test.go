package folders

import (
	"context"
	"errors"
	"testing"

	"dat-workbench/core/backend"
	"dat-workbench/core/backend/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	errs []error
}

func (n *recordingNotifier) Notify(err error) {
	n.errs = append(n.errs, err)
}

type selectionRecorder struct {
	calls []string
}

func (r *selectionRecorder) SelectionStarted(path string) { r.calls = append(r.calls, "started "+path) }
func (r *selectionRecorder) SelectionSettled(path string) { r.calls = append(r.calls, "settled "+path) }

type change struct {
	previous, current string
}

func setup(t *testing.T) (*Context, *mocks.Backend, *recordingNotifier, *[]change) {
	b := new(mocks.Backend)
	n := &recordingNotifier{}
	c := New(b, n, zap.NewNop())

	var changes []change
	c.OnProjectChange(func(previous, current string) {
		changes = append(changes, change{previous, current})
	})
	t.Cleanup(func() { b.AssertExpectations(t) })
	return c, b, n, &changes
}

func TestLoad(t *testing.T) {
	c, b, _, changes := setup(t)
	b.On("LoadPersistedSettings", mock.Anything).Return(backend.Settings{
		BackendDataPath:    "/game",
		RecentProjectPaths: []string{"/p1", "/p2"},
	}, nil)

	require.NoError(t, c.Load(context.Background()))

	assert.Equal(t, "/game", c.DataPath())
	assert.Equal(t, "/p1", c.ProjectPath())
	assert.Equal(t, []string{"/p1", "/p2"}, c.RecentProjectPaths())
	assert.True(t, c.Ready())
	assert.Equal(t, []change{{"", "/p1"}}, *changes)
}

func TestLoad_Error(t *testing.T) {
	c, b, n, changes := setup(t)
	b.On("LoadPersistedSettings", mock.Anything).Return(backend.Settings{}, errors.New("corrupt"))

	assert.Error(t, c.Load(context.Background()))
	assert.Len(t, n.errs, 1)
	assert.Empty(t, *changes)
	assert.False(t, c.Ready())
}

func TestSetBackendDataPath(t *testing.T) {
	c, b, n, changes := setup(t)
	b.On("SelectBackendDataFolder", mock.Anything, "game/").Return("/abs/game", nil)

	c.SetBackendDataPath(context.Background(), "game/")

	assert.Equal(t, "/abs/game", c.DataPath())
	assert.Empty(t, n.errs)
	assert.Empty(t, *changes, "data path changes never reset project state")
}

func TestSetBackendDataPath_OptimisticThenRevert(t *testing.T) {
	c, b, n, _ := setup(t)

	var seenDuringCall string
	b.On("SelectBackendDataFolder", mock.Anything, "/bad").
		Run(func(args mock.Arguments) { seenDuringCall = c.DataPath() }).
		Return("", backend.ErrInvalidPath)

	c.SetBackendDataPath(context.Background(), "/bad")

	assert.Equal(t, "/bad", seenDuringCall)
	assert.Equal(t, "", c.DataPath())
	require.Len(t, n.errs, 1)
	assert.ErrorIs(t, n.errs[0], backend.ErrInvalidPath)
}

func TestSetProjectPath(t *testing.T) {
	c, b, n, changes := setup(t)
	b.On("SelectProjectFolder", mock.Anything, "/p2").Return([]string{"/p2", "/p1"}, nil)

	c.SetProjectPath(context.Background(), "/p2")

	assert.Equal(t, "/p2", c.ProjectPath())
	assert.Equal(t, []string{"/p2", "/p1"}, c.RecentProjectPaths())
	assert.Empty(t, n.errs)
	assert.Equal(t, []change{{"", "/p2"}}, *changes)
}

func TestSetProjectPath_MergesNormalizedPath(t *testing.T) {
	c, b, _, changes := setup(t)
	b.On("SelectProjectFolder", mock.Anything, "p2/").Return([]string{"/abs/p2"}, nil)

	c.SetProjectPath(context.Background(), "p2/")

	assert.Equal(t, "/abs/p2", c.ProjectPath())
	assert.Equal(t, []change{{"", "/abs/p2"}}, *changes)
}

func TestSetProjectPath_SameValueDoesNotNotify(t *testing.T) {
	c, b, _, changes := setup(t)
	b.On("SelectProjectFolder", mock.Anything, "/p1").Return([]string{"/p1"}, nil)

	c.SetProjectPath(context.Background(), "/p1")
	c.SetProjectPath(context.Background(), "/p1")

	assert.Len(t, *changes, 1)
}

func TestSetProjectPath_FailureReverts(t *testing.T) {
	c, b, n, changes := setup(t)
	b.On("SelectProjectFolder", mock.Anything, "/p1").Return([]string{"/p1"}, nil)
	b.On("SelectProjectFolder", mock.Anything, "/missing").Return(nil, backend.ErrInvalidPath)

	c.SetProjectPath(context.Background(), "/p1")
	c.SetProjectPath(context.Background(), "/missing")

	assert.Equal(t, "", c.ProjectPath())
	assert.Equal(t, []string{"/p1"}, c.RecentProjectPaths())
	require.Len(t, n.errs, 1)
	assert.ErrorIs(t, n.errs[0], backend.ErrInvalidPath)
	assert.Equal(t, []change{{"", "/p1"}, {"/p1", ""}}, *changes)
}

func TestSetProjectPath_Clear(t *testing.T) {
	c, b, _, changes := setup(t)
	b.On("SelectProjectFolder", mock.Anything, "/p1").Return([]string{"/p1"}, nil)
	b.On("SelectProjectFolder", mock.Anything, "").Return([]string{"/p1"}, nil)

	c.SetProjectPath(context.Background(), "/p1")
	c.SetProjectPath(context.Background(), "")

	assert.Equal(t, "", c.ProjectPath())
	assert.Equal(t, []string{"/p1"}, c.RecentProjectPaths())
	assert.Equal(t, []change{{"", "/p1"}, {"/p1", ""}}, *changes)
}

func TestReady(t *testing.T) {
	c, b, _, _ := setup(t)
	b.On("SelectBackendDataFolder", mock.Anything, "/game").Return("/game", nil)
	b.On("SelectProjectFolder", mock.Anything, "/p1").Return([]string{"/p1"}, nil)
	b.On("SelectBackendDataFolder", mock.Anything, "").Return("", nil)

	assert.False(t, c.Ready())

	c.SetBackendDataPath(context.Background(), "/game")
	assert.False(t, c.Ready())

	c.SetProjectPath(context.Background(), "/p1")
	assert.True(t, c.Ready())

	c.SetBackendDataPath(context.Background(), "")
	assert.False(t, c.Ready())
}

func TestSnapshot_IsACopy(t *testing.T) {
	c, b, _, _ := setup(t)
	b.On("SelectProjectFolder", mock.Anything, "/p1").Return([]string{"/p1"}, nil)
	c.SetProjectPath(context.Background(), "/p1")

	snap := c.Snapshot()
	snap.RecentProjectPaths[0] = "mutated"

	assert.Equal(t, []string{"/p1"}, c.RecentProjectPaths())
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(zap.NewNop())
	assert.NotPanics(t, func() { n.Notify(errors.New("boom")) })

	var got error
	NotifierFunc(func(err error) { got = err }).Notify(errors.New("x"))
	assert.EqualError(t, got, "x")
}

func TestObserveSelections(t *testing.T) {
	c, b, _, _ := setup(t)
	rec := &selectionRecorder{}
	c.ObserveSelections(rec)

	var seenDuringCall []string
	b.On("SelectProjectFolder", mock.Anything, "p1/").
		Run(func(args mock.Arguments) { seenDuringCall = append([]string(nil), rec.calls...) }).
		Return([]string{"/abs/p1"}, nil)
	b.On("SelectProjectFolder", mock.Anything, "/abs/p1").Return([]string{"/abs/p1"}, nil)
	b.On("SelectProjectFolder", mock.Anything, "/missing").Return(nil, backend.ErrInvalidPath)

	c.SetProjectPath(context.Background(), "p1/")
	assert.Equal(t, []string{"started p1/"}, seenDuringCall, "observers hear of the selection before the backend call")

	// Re-selecting the resolved path starts nothing.
	c.SetProjectPath(context.Background(), "/abs/p1")
	c.SetProjectPath(context.Background(), "/missing")

	assert.Equal(t, []string{
		"started p1/", "settled /abs/p1",
		"started /missing", "settled ",
	}, rec.calls)
}
