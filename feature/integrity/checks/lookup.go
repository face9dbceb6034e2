package checks

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"dat-workbench/core/backend/local"
)

// RequiredLookupFiles lists the lookup tables every project must contain.
var RequiredLookupFiles = []string{
	path.Join(local.LookupDir, local.ZonesFile),
}

// LookupReport describes the lookup tables of a project.
type LookupReport struct {
	Missing []string `json:"missing"`
	Zones   int      `json:"zones"`
}

// CheckLookup returns the missing lookup files and the size of the zone
// table. A zone table that does not parse is an error.
func CheckLookup(project string) (*LookupReport, error) {
	if err := requireDir(project); err != nil {
		return nil, err
	}

	report := &LookupReport{Missing: []string{}}
	for _, name := range RequiredLookupFiles {
		_, err := os.Stat(filepath.Join(project, filepath.FromSlash(name)))
		if errors.Is(err, fs.ErrNotExist) {
			report.Missing = append(report.Missing, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", name, err)
		}
	}

	zones, err := local.LoadZoneTable(project)
	if err != nil {
		return nil, err
	}
	report.Zones = len(zones.IDs())
	return report, nil
}
