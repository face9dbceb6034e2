package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"go.uber.org/zap"
)

// RequestExport implements backend.Backend.
func (b *Backend) RequestExport(ctx context.Context, d descriptor.Descriptor) error {
	st, err := b.readyState()
	if err != nil {
		return err
	}
	b.submit(st, backend.OperationExport, d)
	return nil
}

// RequestGenerate implements backend.Backend. Generation reads only the
// project, so no data folder is required.
func (b *Backend) RequestGenerate(ctx context.Context, d descriptor.Descriptor) error {
	st, err := b.projectState()
	if err != nil {
		return err
	}
	b.submit(st, backend.OperationGenerate, d)
	return nil
}

// RequestExportAll exports every supported fixed-category target.
func (b *Backend) RequestExportAll(ctx context.Context) error {
	st, err := b.readyState()
	if err != nil {
		return err
	}
	for _, group := range []backend.FixedGroup{backend.GroupStringTables, backend.GroupItems, backend.GroupGlobalDialog} {
		targets, err := b.EnumerateFixedCategoryTargets(ctx, group)
		if err != nil {
			return err
		}
		for _, d := range targets {
			b.submit(st, backend.OperationExport, d)
		}
	}
	return nil
}

// RequestGenerateAll generates a DAT for every existing export file.
func (b *Backend) RequestGenerateAll(ctx context.Context) error {
	st, err := b.projectState()
	if err != nil {
		return err
	}
	targets, err := b.EnumerateExistingExportedTargets(ctx)
	if err != nil {
		return err
	}
	b.logger.Info("Generating DATs", zap.Int("count", len(targets)))
	for _, d := range targets {
		b.submit(st, backend.OperationGenerate, d)
	}
	return nil
}

func (b *Backend) projectState() (state, error) {
	st := b.snapshot()
	if st.project == "" {
		return st, backend.ErrNoProjectPath
	}
	return st, nil
}

func (b *Backend) readyState() (state, error) {
	st, err := b.projectState()
	if err != nil {
		return st, err
	}
	if st.dataPath == "" {
		return st, backend.ErrNoDataPath
	}
	return st, nil
}

// submit emits Working right away and queues the conversion. The terminal
// event follows once a worker has run it.
func (b *Backend) submit(st state, kind backend.OperationKind, d descriptor.Descriptor) {
	b.publish(st, kind, d, backend.Working())

	b.jobs.Add(1)
	go func() {
		defer b.jobs.Done()

		if err := b.workers.Acquire(b.ctx, 1); err != nil {
			b.publish(st, kind, d, backend.Failed(fmt.Sprintf("cancelled: %v", err)))
			return
		}
		defer b.workers.Release(1)

		out, err := b.convert(st, kind, d)
		if err != nil {
			b.logger.Debug("Conversion failed",
				zap.String("kind", string(kind)),
				zap.String("descriptor", d.Label()),
				zap.Error(err),
			)
			b.publish(st, kind, d, backend.Failed(err.Error()))
			return
		}
		b.publish(st, kind, d, backend.Finished(out))
	}()
}

func (b *Backend) convert(st state, kind backend.OperationKind, d descriptor.Descriptor) (string, error) {
	rel, err := d.RelativePath(st.zones)
	if err != nil {
		return "", err
	}
	exported := filepath.Join(st.rawDir(), filepath.FromSlash(rel)+descriptor.ExportExt)

	job := Job{Kind: kind, Descriptor: d, DataDir: st.dataPath}
	switch kind {
	case backend.OperationExport:
		job.Output = exported
	case backend.OperationGenerate:
		job.Input = exported
		job.Output = filepath.Join(st.project, GeneratedDir, filepath.FromSlash(rel)+DatExt)
	}

	if err := os.MkdirAll(filepath.Dir(job.Output), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := b.converter.Convert(b.ctx, job); err != nil {
		return "", err
	}
	return job.Output, nil
}

func (b *Backend) publish(st state, kind backend.OperationKind, d descriptor.Descriptor, phase backend.Phase) {
	b.broker.publishProcessing(backend.ProcessingEvent{
		Descriptor: d,
		Kind:       kind,
		Phase:      phase,
		Project:    st.project,
	})
}
