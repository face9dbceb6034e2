package integrity

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dat-workbench/core/backend"
	"dat-workbench/core/backend/local"
	"dat-workbench/core/descriptor"
	"dat-workbench/core/reconcile"
	"dat-workbench/core/storage"
	"dat-workbench/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func touch(t *testing.T, parts ...string) {
	t.Helper()
	p := filepath.Join(parts...)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
}

// newProject lays out a project with weapons exported and generated, armor
// only exported and an orphaned key items DAT.
func newProject(t *testing.T) string {
	project := t.TempDir()
	touch(t, project, local.RawDataDir, "items", "weapons.yml")
	touch(t, project, local.RawDataDir, "items", "armor.yml")
	touch(t, project, local.GeneratedDir, "items", "weapons.DAT")
	touch(t, project, local.GeneratedDir, "key_items.DAT")
	require.NoError(t, os.MkdirAll(filepath.Join(project, local.LookupDir), 0o755))
	return project
}

func listed(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestService_NoProject(t *testing.T) {
	svc := NewService(StaticProject(""), nil, storage.Config{}, zap.NewNop())

	_, err := svc.CheckStructure(context.Background())
	assert.ErrorIs(t, err, ErrNoProject)
	_, err = svc.CheckLookup(context.Background())
	assert.ErrorIs(t, err, ErrNoProject)
	_, err = svc.Reconcile(context.Background())
	assert.ErrorIs(t, err, ErrNoProject)
}

func TestService_CheckStorage_Disabled(t *testing.T) {
	svc := NewService(StaticProject("/p"), nil, storage.Config{}, zap.NewNop())

	report, err := svc.CheckStorage(context.Background())
	require.NoError(t, err)
	assert.False(t, report.Enabled)
}

func TestService_Reconcile_LocalOnly(t *testing.T) {
	svc := NewService(StaticProject(newProject(t)), nil, storage.Config{}, zap.NewNop())

	plan, err := svc.Reconcile(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []reconcile.Result{
		{Key: "items/armor", Exported: true},
		{Key: "items/weapons", Exported: true, Generated: true},
		{Key: "key_items", Generated: true},
	}, plan.Results)
	assert.Equal(t, 1, plan.Summary.MissingGenerated)
	assert.Equal(t, 1, plan.Summary.Orphaned)
	assert.Zero(t, plan.Summary.MissingPublished)
}

func TestService_Reconcile_WithStorage(t *testing.T) {
	client := new(mocks.Client)
	client.On("ListObjects", mock.Anything, "dats", mock.Anything).Return(listed("items/weapons.DAT"))

	cfg := storage.Config{Bucket: "dats"}
	svc := NewService(StaticProject(newProject(t)), client, cfg, zap.NewNop())

	plan, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.Published)
	assert.Equal(t, 1, plan.Summary.MissingPublished, "the orphaned DAT is not published")
}

func TestService_CachesUntilInvalidated(t *testing.T) {
	project := newProject(t)
	svc := NewService(StaticProject(project), nil, storage.Config{}, zap.NewNop())

	plan, err := svc.Reconcile(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, plan.Summary.MissingGenerated)

	touch(t, project, local.GeneratedDir, "items", "armor.DAT")
	plan, err = svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.MissingGenerated, "served from cache")

	// A Working event leaves the cache alone.
	svc.OnEvent(backend.ProcessingEvent{Kind: backend.OperationGenerate, Phase: backend.Working(), Project: project})
	plan, err = svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Summary.MissingGenerated)

	svc.OnEvent(backend.ProcessingEvent{Kind: backend.OperationGenerate, Phase: backend.Finished("/x"), Project: project})
	plan, err = svc.Reconcile(context.Background())
	require.NoError(t, err)
	assert.Zero(t, plan.Summary.MissingGenerated)
}

func TestService_ReconcileTarget(t *testing.T) {
	svc := NewService(StaticProject(newProject(t)), nil, storage.Config{}, zap.NewNop())

	r, err := svc.ReconcileTarget(context.Background(), descriptor.MustFixed(descriptor.Weapons))
	require.NoError(t, err)
	assert.Equal(t, reconcile.Result{Key: "items/weapons", Exported: true, Generated: true}, r)

	_, err = svc.ReconcileTarget(context.Background(), descriptor.MustZoned(descriptor.EntityNames, 999))
	assert.ErrorContains(t, err, "no zone name")
}

func TestService_FixStructure(t *testing.T) {
	project := t.TempDir()
	svc := NewService(StaticProject(project), nil, storage.Config{}, zap.NewNop())

	missing, err := svc.CheckStructure(context.Background())
	require.NoError(t, err)
	require.Len(t, missing, 3)

	require.NoError(t, svc.FixStructure(context.Background(), missing))
	missing, err = svc.CheckStructure(context.Background())
	require.NoError(t, err)
	assert.Empty(t, missing)
}
