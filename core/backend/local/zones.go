package local

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"dat-workbench/core/descriptor"

	"gopkg.in/yaml.v3"
)

// LoadZoneTable reads <project>/lookup_tables/zones.yml. A project without
// the file gets an empty table.
func LoadZoneTable(project string) (*descriptor.ZoneTable, error) {
	p := filepath.Join(project, LookupDir, ZonesFile)

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return descriptor.NewZoneTable(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open zone mapping file: %w", err)
	}

	var zones map[descriptor.ZoneID]descriptor.ZoneName
	if err := yaml.Unmarshal(data, &zones); err != nil {
		return nil, fmt.Errorf("unable to read zone mapping file: %w", err)
	}
	return descriptor.NewZoneTable(zones), nil
}
