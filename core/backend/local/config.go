package local

// Config holds configuration for the in-process conversion backend.
type Config struct {
	// SettingsDir holds persistence.yml. Empty means the user config dir.
	SettingsDir string `mapstructure:"settings_dir" default:""`
	// ConverterCommand is the external DAT converter executable.
	ConverterCommand string `mapstructure:"converter_command" default:"dat-converter"`
	// Workers is the number of conversions that may run at once.
	Workers int `mapstructure:"workers" default:"4"`
	// RecentLimit caps the recent project list.
	RecentLimit int `mapstructure:"recent_limit" default:"5"`
	// EventBuffer is the per-subscriber channel capacity.
	EventBuffer int `mapstructure:"event_buffer" default:"1024"`
}

const (
	// RawDataDir holds the exported files of a project.
	RawDataDir = "raw_data"
	// GeneratedDir receives the generated DAT files of a project.
	GeneratedDir = "generated_dats"
	// LookupDir holds the project lookup tables.
	LookupDir = "lookup_tables"
	// ZonesFile maps zone ids to names inside LookupDir.
	ZonesFile = "zones.yml"
	// SettingsFile is the persisted settings document inside SettingsDir.
	SettingsFile = "persistence.yml"
	// DatExt is the extension of generated files.
	DatExt = ".DAT"
)

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = 5
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = 1024
	}
	return c
}
