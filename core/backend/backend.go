package backend

import (
	"context"
	"errors"

	"dat-workbench/core/descriptor"
)

var (
	// ErrInvalidPath is returned when a selected folder is rejected.
	ErrInvalidPath = errors.New("invalid path")
	// ErrNoProjectPath is returned when an operation needs a project.
	ErrNoProjectPath = errors.New("no project path specified")
	// ErrNoDataPath is returned when an operation needs the game data folder.
	ErrNoDataPath = errors.New("no data path specified")
	// ErrUnknownCategory is returned when a category cannot be enumerated.
	// It is the descriptor sentinel so either name matches.
	ErrUnknownCategory = descriptor.ErrUnknownCategory
)

// FixedGroup selects one of the fixed target lists.
type FixedGroup string

const (
	GroupStringTables FixedGroup = "string_tables"
	GroupItems        FixedGroup = "items"
	GroupGlobalDialog FixedGroup = "global_dialog"
)

// Settings is the persisted state loaded at startup.
type Settings struct {
	BackendDataPath    string   `yaml:"backend_data_path" json:"backend_data_path"`
	RecentProjectPaths []string `yaml:"recent_project_paths" json:"recent_project_paths"`
}

// ZoneInfo names a zone that has a target for a zone scoped category.
type ZoneInfo struct {
	ID   descriptor.ZoneID `json:"id"`
	Name string            `json:"name"`
}

// Subscription is a live registration on both pushed event streams.
type Subscription struct {
	Processing  <-chan ProcessingEvent
	FileChanges <-chan FileChangeEvent
	// Unsubscribe stops delivery and closes both channels.
	Unsubscribe func()
}

// Backend is the Conversion Backend as seen by the client.
// Paths are plain strings; "" means none.
type Backend interface {
	// SelectBackendDataFolder validates path and returns the confirmed,
	// possibly normalized path.
	SelectBackendDataFolder(ctx context.Context, path string) (string, error)
	// SelectProjectFolder validates path and returns the recent project
	// list, most recent first.
	SelectProjectFolder(ctx context.Context, path string) ([]string, error)
	// LoadPersistedSettings returns the state saved by earlier runs.
	LoadPersistedSettings(ctx context.Context) (Settings, error)

	// EnumerateFixedCategoryTargets lists the targets of a fixed group.
	EnumerateFixedCategoryTargets(ctx context.Context, group FixedGroup) ([]descriptor.Descriptor, error)
	// EnumerateZoneScopedTargets lists the zones that have a target for category.
	EnumerateZoneScopedTargets(ctx context.Context, category descriptor.Category) ([]ZoneInfo, error)
	// EnumerateExistingExportedTargets lists targets whose export file exists
	// in the current project.
	EnumerateExistingExportedTargets(ctx context.Context) ([]descriptor.Descriptor, error)

	RequestExport(ctx context.Context, d descriptor.Descriptor) error
	RequestGenerate(ctx context.Context, d descriptor.Descriptor) error
	RequestExportAll(ctx context.Context) error
	RequestGenerateAll(ctx context.Context) error

	// Subscribe registers for the processing and file-change streams.
	Subscribe() Subscription
}
