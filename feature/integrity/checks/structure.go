package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dat-workbench/core/backend/local"

	"go.uber.org/zap"
)

// RequiredFolders lists the folders every project must contain.
var RequiredFolders = []string{
	local.RawDataDir, local.GeneratedDir, local.LookupDir,
}

// CheckStructure returns the required folders missing from project.
func CheckStructure(project string) ([]string, error) {
	if err := requireDir(project); err != nil {
		return nil, err
	}

	var missing []string
	for _, folder := range RequiredFolders {
		info, err := os.Stat(filepath.Join(project, folder))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			missing = append(missing, folder)
		case err != nil:
			return nil, fmt.Errorf("failed to check %s: %w", folder, err)
		case !info.IsDir():
			return nil, fmt.Errorf("%s exists but is not a directory", folder)
		}
	}
	return missing, nil
}

// FixStructure creates the missing folders.
func FixStructure(project string, logger *zap.Logger, missing []string) error {
	for _, folder := range missing {
		if err := os.MkdirAll(filepath.Join(project, folder), 0o755); err != nil {
			logger.Error("Failed to create folder", zap.String("folder", folder), zap.Error(err))
			return err
		}
		logger.Info("Created missing folder", zap.String("folder", folder))
	}
	return nil
}

func requireDir(project string) error {
	if project == "" {
		return errors.New("no project folder selected")
	}
	info, err := os.Stat(project)
	if err != nil {
		return fmt.Errorf("failed to open project: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project %s is not a directory", project)
	}
	return nil
}
