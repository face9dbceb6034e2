package folders

import (
	"context"
	"fmt"
	"sync"

	"dat-workbench/core/backend"

	"go.uber.org/zap"
)

// ProjectListener is called when the resolved project path changes.
// Either value may be "" (none).
type ProjectListener func(previous, current string)

// SelectionObserver follows a project selection while the backend confirms
// it. SelectionStarted gets the requested path before the backend is asked;
// SelectionSettled gets the confirmed path, or "" when the selection failed.
// Selecting the already resolved path starts nothing.
type SelectionObserver interface {
	SelectionStarted(path string)
	SelectionSettled(path string)
}

// Snapshot is a point-in-time copy of the folder state.
type Snapshot struct {
	DataPath           string   `json:"data_path"`
	ProjectPath        string   `json:"project_path"`
	RecentProjectPaths []string `json:"recent_project_paths"`
}

// Context holds the active folders. It is created once at startup and lives
// for the whole process.
type Context struct {
	backend  backend.Backend
	notifier Notifier
	logger   *zap.Logger

	// dataMu and projectMu serialize selections of the same kind so the
	// last call always wins.
	dataMu    sync.Mutex
	projectMu sync.Mutex

	mu       sync.RWMutex
	dataPath string
	project  string
	// resolved is the project path last reported to listeners.
	resolved  string
	recent    []string
	listeners []ProjectListener
	observers []SelectionObserver
}

// New creates an empty folder context.
func New(b backend.Backend, notifier Notifier, logger *zap.Logger) *Context {
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &Context{
		backend:  b,
		notifier: notifier,
		logger:   logger,
	}
}

// OnProjectChange registers l. Listeners must not call back into Set*.
func (c *Context) OnProjectChange(l ProjectListener) {
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
}

// ObserveSelections registers o. Observers are called before the project
// listeners of the same selection.
func (c *Context) ObserveSelections(o SelectionObserver) {
	c.mu.Lock()
	c.observers = append(c.observers, o)
	c.mu.Unlock()
}

// Load applies the persisted settings: the saved data path and the recent
// list, with the most recent project becoming active.
func (c *Context) Load(ctx context.Context) error {
	settings, err := c.backend.LoadPersistedSettings(ctx)
	if err != nil {
		c.notifier.Notify(fmt.Errorf("failed to load settings: %w", err))
		return err
	}

	project := ""
	if len(settings.RecentProjectPaths) > 0 {
		project = settings.RecentProjectPaths[0]
	}

	c.mu.Lock()
	c.dataPath = settings.BackendDataPath
	c.recent = append([]string(nil), settings.RecentProjectPaths...)
	c.project = project
	c.mu.Unlock()

	c.logger.Info("Loaded persisted folders",
		zap.String("data_path", settings.BackendDataPath),
		zap.String("project_path", project),
		zap.Int("recent", len(settings.RecentProjectPaths)),
	)

	c.resolveProject(project)
	return nil
}

// SetBackendDataPath selects the game data folder. "" clears it.
func (c *Context) SetBackendDataPath(ctx context.Context, path string) {
	c.dataMu.Lock()
	defer c.dataMu.Unlock()

	c.mu.Lock()
	c.dataPath = path
	c.mu.Unlock()

	confirmed, err := c.backend.SelectBackendDataFolder(ctx, path)
	if err != nil {
		c.mu.Lock()
		c.dataPath = ""
		c.mu.Unlock()
		c.notifier.Notify(fmt.Errorf("data folder %q: %w", path, err))
		return
	}

	c.mu.Lock()
	c.dataPath = confirmed
	c.mu.Unlock()

	c.logger.Info("Data folder selected", zap.String("path", confirmed))
}

// SetProjectPath selects the project folder. "" clears it.
func (c *Context) SetProjectPath(ctx context.Context, path string) {
	c.projectMu.Lock()
	defer c.projectMu.Unlock()

	c.mu.Lock()
	c.project = path
	started := path != c.resolved
	observers := append([]SelectionObserver(nil), c.observers...)
	c.mu.Unlock()

	if started {
		for _, o := range observers {
			o.SelectionStarted(path)
		}
	}

	recent, err := c.backend.SelectProjectFolder(ctx, path)
	if err != nil {
		c.mu.Lock()
		c.project = ""
		c.mu.Unlock()
		c.notifier.Notify(fmt.Errorf("project folder %q: %w", path, err))
		if started {
			for _, o := range observers {
				o.SelectionSettled("")
			}
		}
		c.resolveProject("")
		return
	}

	// The backend puts the normalized form of path at the front.
	confirmed := path
	if path != "" && len(recent) > 0 {
		confirmed = recent[0]
	}

	c.mu.Lock()
	c.project = confirmed
	c.recent = append([]string(nil), recent...)
	c.mu.Unlock()

	c.logger.Info("Project folder selected", zap.String("path", confirmed))
	if started {
		for _, o := range observers {
			o.SelectionSettled(confirmed)
		}
	}
	c.resolveProject(confirmed)
}

// resolveProject records project as the resolved value and notifies
// listeners if it differs from the previous one.
func (c *Context) resolveProject(project string) {
	c.mu.Lock()
	previous := c.resolved
	if previous == project {
		c.mu.Unlock()
		return
	}
	c.resolved = project
	listeners := append([]ProjectListener(nil), c.listeners...)
	c.mu.Unlock()

	c.logger.Debug("Project changed", zap.String("previous", previous), zap.String("current", project))
	for _, l := range listeners {
		l(previous, project)
	}
}

// DataPath returns the current game data path.
func (c *Context) DataPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataPath
}

// ProjectPath returns the current project path.
func (c *Context) ProjectPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.project
}

// RecentProjectPaths returns a copy of the recent list, most recent first.
func (c *Context) RecentProjectPaths() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.recent...)
}

// Ready reports whether both folders are set. Processing actions must be
// disabled while it is false.
func (c *Context) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dataPath != "" && c.project != ""
}

// Snapshot returns a copy of the folder state.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		DataPath:           c.dataPath,
		ProjectPath:        c.project,
		RecentProjectPaths: append([]string(nil), c.recent...),
	}
}
