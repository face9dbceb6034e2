package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

var _ backend.Backend = (*Backend)(nil)

// Backend is an in-process backend.Backend. It owns the persisted folder
// state, watches the active project and runs conversions through a
// Converter on a bounded pool.
type Backend struct {
	cfg       Config
	converter Converter
	store     *Store
	logger    *zap.Logger

	broker  *broker
	watcher *watcher
	workers *semaphore.Weighted
	walks   singleflight.Group
	jobs    sync.WaitGroup

	// ctx bounds every queued conversion; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.RWMutex
	settings backend.Settings
	project  string
	zones    *descriptor.ZoneTable
}

// Option customizes a Backend.
type Option func(*Backend)

// Ephemeral keeps the folder state in memory only. Nothing is read from or
// written to persistence.yml.
func Ephemeral() Option {
	return func(b *Backend) { b.store = nil }
}

// New restores the persisted state and starts watching the most recent
// project.
func New(cfg Config, converter Converter, logger *zap.Logger, opts ...Option) (*Backend, error) {
	cfg = cfg.withDefaults()

	store, err := NewStore(cfg.SettingsDir)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Backend{
		cfg:       cfg,
		converter: converter,
		store:     store,
		logger:    logger,
		broker:    newBroker(ctx, cfg.EventBuffer, logger),
		workers:   semaphore.NewWeighted(int64(cfg.Workers)),
		ctx:       ctx,
		cancel:    cancel,
		zones:     descriptor.NewZoneTable(nil),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store != nil {
		if b.settings, err = b.store.Load(); err != nil {
			cancel()
			return nil, err
		}
	}

	b.watcher, err = newWatcher(b.resolvePath, b.broker.publishFileChange, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start file watcher: %w", err)
	}

	if len(b.settings.RecentProjectPaths) > 0 {
		project := b.settings.RecentProjectPaths[0]
		if err := b.activateProject(project); err != nil {
			logger.Warn("Failed to restore project", zap.String("path", project), zap.Error(err))
		}
	}

	logger.Debug("Local backend ready",
		zap.Bool("persistent", b.store != nil),
		zap.Int("workers", cfg.Workers),
	)
	return b, nil
}

// Close cancels pending conversions, waits for running ones and releases
// every subscriber.
func (b *Backend) Close() error {
	b.cancel()
	b.jobs.Wait()
	err := b.watcher.close()
	b.broker.close()
	return err
}

// Subscribe implements backend.Backend.
func (b *Backend) Subscribe() backend.Subscription {
	return b.broker.subscribe()
}

// LoadPersistedSettings implements backend.Backend.
func (b *Backend) LoadPersistedSettings(ctx context.Context) (backend.Settings, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return backend.Settings{
		BackendDataPath:    b.settings.BackendDataPath,
		RecentProjectPaths: append([]string(nil), b.settings.RecentProjectPaths...),
	}, nil
}

// SelectBackendDataFolder implements backend.Backend.
func (b *Backend) SelectBackendDataFolder(ctx context.Context, path string) (string, error) {
	confirmed := ""
	if path != "" {
		var err error
		if confirmed, err = normalizeDir(path); err != nil {
			return "", err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings.BackendDataPath = confirmed
	b.save()
	return confirmed, nil
}

// SelectProjectFolder implements backend.Backend.
func (b *Backend) SelectProjectFolder(ctx context.Context, path string) ([]string, error) {
	if path == "" {
		b.mu.Lock()
		b.project = ""
		b.zones = descriptor.NewZoneTable(nil)
		recent := append([]string(nil), b.settings.RecentProjectPaths...)
		b.mu.Unlock()
		b.watcher.watch("")
		return recent, nil
	}

	confirmed, err := normalizeDir(path)
	if err != nil {
		return nil, err
	}
	if err := b.activateProject(confirmed); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.settings.RecentProjectPaths = pushRecent(b.settings.RecentProjectPaths, confirmed, b.cfg.RecentLimit)
	b.save()
	return append([]string(nil), b.settings.RecentProjectPaths...), nil
}

// save writes the settings. Caller holds mu.
func (b *Backend) save() {
	if b.store == nil {
		return
	}
	if err := b.store.Save(b.settings); err != nil {
		b.logger.Warn("Failed to persist settings", zap.String("path", b.store.Path()), zap.Error(err))
	}
}

// activateProject loads the zone table of project and moves the watcher.
func (b *Backend) activateProject(project string) error {
	zones, err := LoadZoneTable(project)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.project = project
	b.zones = zones
	b.mu.Unlock()

	b.watcher.watch(project)
	return nil
}

// pushRecent moves path to the front of recent, drops duplicates and caps
// the list at limit.
func pushRecent(recent []string, path string, limit int) []string {
	out := make([]string, 0, limit)
	out = append(out, path)
	for _, p := range recent {
		if len(out) == limit {
			break
		}
		if p != path {
			out = append(out, p)
		}
	}
	return out
}

// normalizeDir returns the absolute, cleaned form of path if it names an
// existing directory.
func normalizeDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", backend.ErrInvalidPath, path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s does not exist", backend.ErrInvalidPath, path)
		}
		return "", fmt.Errorf("%w: %s: %v", backend.ErrInvalidPath, path, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", backend.ErrInvalidPath, path)
	}
	return filepath.Clean(abs), nil
}

// state is a consistent copy of the folder state.
type state struct {
	dataPath string
	project  string
	zones    *descriptor.ZoneTable
}

func (b *Backend) snapshot() state {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return state{dataPath: b.settings.BackendDataPath, project: b.project, zones: b.zones}
}

func (s state) rawDir() string {
	return filepath.Join(s.project, RawDataDir)
}

func (b *Backend) resolvePath(path, rawDir string) (descriptor.Descriptor, bool) {
	return descriptor.FromPath(path, rawDir, b.snapshot().zones)
}
