package descriptor

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ExportExt is the extension of exported files.
const ExportExt = ".yml"

// ZoneName describes a zone as listed in the zone lookup table.
type ZoneName struct {
	DisplayName string `yaml:"display_name" json:"display_name"`
	FileName    string `yaml:"file_name" json:"file_name"`
}

// ZoneTable maps zone ids to names and file names back to ids.
type ZoneTable struct {
	byID   map[ZoneID]ZoneName
	byFile map[string]ZoneID
}

// NewZoneTable indexes the given zone names.
func NewZoneTable(zones map[ZoneID]ZoneName) *ZoneTable {
	t := &ZoneTable{
		byID:   make(map[ZoneID]ZoneName, len(zones)),
		byFile: make(map[string]ZoneID, len(zones)),
	}
	for id, name := range zones {
		t.byID[id] = name
		t.byFile[name.FileName] = id
	}
	return t
}

// Name returns the names of zone id.
func (t *ZoneTable) Name(id ZoneID) (ZoneName, bool) {
	if t == nil {
		return ZoneName{}, false
	}
	n, ok := t.byID[id]
	return n, ok
}

// Lookup returns the zone id for a zone file name.
func (t *ZoneTable) Lookup(fileName string) (ZoneID, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.byFile[fileName]
	return id, ok
}

// IDs returns every zone id in the table.
func (t *ZoneTable) IDs() []ZoneID {
	if t == nil {
		return nil
	}
	ids := make([]ZoneID, 0, len(t.byID))
	for id := range t.byID {
		ids = append(ids, id)
	}
	return ids
}

// RelativePath returns the slash separated export path of d relative to the
// raw data directory, without extension.
func (d Descriptor) RelativePath(zones *ZoneTable) (string, error) {
	info, ok := categories[d.category]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, d.category)
	}

	switch info.group {
	case GroupItems:
		return path.Join("items", info.file), nil
	case GroupGlobalDialog:
		return path.Join("global_dialog", info.file), nil
	case GroupZoned:
		name, ok := zones.Name(d.zone)
		if !ok {
			return "", fmt.Errorf("no zone name found for zone id %d", d.zone)
		}
		return path.Join(info.file, name.FileName), nil
	default:
		return info.file, nil
	}
}

// FromPath maps an export file path to its descriptor. p may be absolute
// or relative; if it lies under rawDataDir that prefix is stripped first.
// ok is false for paths that do not name a known target.
func FromPath(p, rawDataDir string, zones *ZoneTable) (Descriptor, bool) {
	if rawDataDir != "" {
		if rel, err := filepath.Rel(rawDataDir, p); err == nil && !strings.HasPrefix(rel, "..") {
			p = rel
		}
	}
	p = filepath.ToSlash(p)

	name := strings.TrimSuffix(path.Base(p), ExportExt)
	parent := path.Base(path.Dir(p))
	if parent == "." || parent == "/" {
		parent = ""
	}

	switch parent {
	case "":
		if name == "menu" {
			return Descriptor{category: DataMenu}, true
		}
		return lookupFile(name, GroupStringTables, GroupMisc)
	case "items":
		return lookupFile(name, GroupItems)
	case "global_dialog":
		return lookupFile(name, GroupGlobalDialog)
	}

	for _, c := range Categories(GroupZoned, true) {
		if categories[c].file != parent {
			continue
		}
		id, ok := zones.Lookup(name)
		if !ok {
			return Descriptor{}, false
		}
		return Descriptor{category: c, zone: id}, true
	}
	return Descriptor{}, false
}

func lookupFile(name string, groups ...Group) (Descriptor, bool) {
	for _, c := range order {
		info := categories[c]
		if info.file != name {
			continue
		}
		for _, g := range groups {
			if info.group == g {
				return Descriptor{category: c}, true
			}
		}
	}
	return Descriptor{}, false
}
