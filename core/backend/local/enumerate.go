package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var fixedGroups = map[backend.FixedGroup]descriptor.Group{
	backend.GroupStringTables: descriptor.GroupStringTables,
	backend.GroupItems:        descriptor.GroupItems,
	backend.GroupGlobalDialog: descriptor.GroupGlobalDialog,
}

// EnumerateFixedCategoryTargets implements backend.Backend. Categories the
// converter cannot round-trip are left out.
func (b *Backend) EnumerateFixedCategoryTargets(ctx context.Context, group backend.FixedGroup) ([]descriptor.Descriptor, error) {
	g, ok := fixedGroups[group]
	if !ok {
		return nil, fmt.Errorf("%w: group %q", backend.ErrUnknownCategory, group)
	}
	cats := descriptor.Categories(g, false)
	out := make([]descriptor.Descriptor, 0, len(cats))
	for _, c := range cats {
		out = append(out, descriptor.MustFixed(c))
	}
	return out, nil
}

// EnumerateZoneScopedTargets implements backend.Backend. Every zone of the
// project zone table is checked against the game data concurrently; zones
// without a matching DAT are left out.
func (b *Backend) EnumerateZoneScopedTargets(ctx context.Context, category descriptor.Category) ([]backend.ZoneInfo, error) {
	if !category.Valid() || !category.Zoned() {
		return nil, fmt.Errorf("%w: %q is not zone scoped", backend.ErrUnknownCategory, category)
	}

	st := b.snapshot()
	if st.project == "" {
		return nil, backend.ErrNoProjectPath
	}
	if st.dataPath == "" {
		return nil, backend.ErrNoDataPath
	}

	ids := st.zones.IDs()
	found := make([]*backend.ZoneInfo, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			name, _ := st.zones.Name(id)
			d := descriptor.MustZoned(category, id)
			if err := b.converter.Check(gctx, st.dataPath, d); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				b.logger.Debug("DAT did not match type", zap.String("descriptor", d.Label()), zap.Error(err))
				return nil
			}
			found[i] = &backend.ZoneInfo{ID: id, Name: name.DisplayName}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]backend.ZoneInfo, 0, len(found))
	for _, z := range found {
		if z != nil {
			out = append(out, *z)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// EnumerateExistingExportedTargets implements backend.Backend. Concurrent
// calls for the same project share one walk.
func (b *Backend) EnumerateExistingExportedTargets(ctx context.Context) ([]descriptor.Descriptor, error) {
	st := b.snapshot()
	if st.project == "" {
		return nil, backend.ErrNoProjectPath
	}

	ch := b.walks.DoChan(st.project, func() (any, error) {
		return b.walkExported(st)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		shared := res.Val.([]descriptor.Descriptor)
		return append([]descriptor.Descriptor(nil), shared...), nil
	}
}

func (b *Backend) walkExported(st state) ([]descriptor.Descriptor, error) {
	rawDir := st.rawDir()
	var out []descriptor.Descriptor

	err := filepath.WalkDir(rawDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == rawDir && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() || filepath.Ext(p) != descriptor.ExportExt {
			return nil
		}
		desc, ok := descriptor.FromPath(p, rawDir, st.zones)
		if !ok {
			b.logger.Debug("Could not map file to a DAT", zap.String("path", p))
			return nil
		}
		out = append(out, desc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", rawDir, err)
	}
	return out, nil
}
