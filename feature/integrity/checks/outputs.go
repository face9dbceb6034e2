package checks

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"dat-workbench/core/backend/local"
	"dat-workbench/core/descriptor"
	"dat-workbench/core/reconcile"
)

// ExportedSet indexes the export files under <project>/raw_data.
func ExportedSet(project string) reconcile.Loader {
	return dirSet(filepath.Join(project, local.RawDataDir), descriptor.ExportExt)
}

// GeneratedSet indexes the DAT files under <project>/generated_dats.
func GeneratedSet(project string) reconcile.Loader {
	return dirSet(filepath.Join(project, local.GeneratedDir), local.DatExt)
}

// dirSet keys every file below root with extension ext by its slash
// separated relative path without extension. A missing root is empty.
func dirSet(root, ext string) reconcile.Loader {
	return func(ctx context.Context) (reconcile.Set, error) {
		set := reconcile.Set{}
		err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) && p == root {
					return fs.SkipAll
				}
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ext) {
				return nil
			}
			rel, err := filepath.Rel(root, p)
			if err != nil {
				return err
			}
			set.Add(TrimKey(filepath.ToSlash(rel), ext))
			return nil
		})
		if err != nil {
			return nil, err
		}
		return set, nil
	}
}

// TrimKey strips ext from name regardless of its case.
func TrimKey(name, ext string) string {
	if len(name) >= len(ext) && strings.EqualFold(name[len(name)-len(ext):], ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}
