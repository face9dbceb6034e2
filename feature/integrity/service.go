package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dat-workbench/core/backend"
	"dat-workbench/core/backend/local"
	"dat-workbench/core/descriptor"
	"dat-workbench/core/reconcile"
	"dat-workbench/core/storage"
	"dat-workbench/feature/integrity/checks"

	"go.uber.org/zap"
)

// DefaultCacheTTL is how long output indices are reused between requests.
const DefaultCacheTTL = 30 * time.Second

// ErrNoProject is returned when no project folder is selected.
var ErrNoProject = errors.New("no project folder selected")

// Projects yields the active project path.
type Projects interface {
	ProjectPath() string
}

// StaticProject is a Projects that always returns itself.
type StaticProject string

// ProjectPath implements Projects.
func (p StaticProject) ProjectPath() string { return string(p) }

// ProjectsFunc adapts a function to Projects.
type ProjectsFunc func() string

// ProjectPath implements Projects.
func (f ProjectsFunc) ProjectPath() string { return f() }

// Service handles integrity checks for the active project.
type Service struct {
	projects Projects
	client   storage.Client
	storage  storage.Config
	logger   *zap.Logger
	cache    *reconcile.Cache
	ttl      time.Duration
}

// NewService creates a new integrity service. client may be nil when no
// storage target is configured.
func NewService(projects Projects, client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	return &Service{
		projects: projects,
		client:   client,
		storage:  cfg,
		logger:   logger,
		cache:    reconcile.NewCache(),
		ttl:      DefaultCacheTTL,
	}
}

func (s *Service) project() (string, error) {
	p := s.projects.ProjectPath()
	if p == "" {
		return "", ErrNoProject
	}
	return p, nil
}

// CheckStructure returns the required folders missing from the project.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	p, err := s.project()
	if err != nil {
		return nil, err
	}
	return checks.CheckStructure(p)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	p, err := s.project()
	if err != nil {
		return err
	}
	return checks.FixStructure(p, s.logger, missing)
}

// CheckLookup inspects the project lookup tables.
func (s *Service) CheckLookup(ctx context.Context) (*checks.LookupReport, error) {
	p, err := s.project()
	if err != nil {
		return nil, err
	}
	return checks.CheckLookup(p)
}

// CheckStorage inspects the publishing target.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	if s.client == nil {
		return &checks.StorageReport{}, nil
	}
	return checks.CheckStorage(ctx, s.client, s.storage.Bucket, s.storage.Prefix)
}

// Reconcile compares exports, generated DATs and published objects of the
// project and plans what is out of sync.
func (s *Service) Reconcile(ctx context.Context) (*reconcile.Plan, error) {
	spec, err := s.spec()
	if err != nil {
		return nil, err
	}
	return reconcile.ReconcileWithPlan(ctx, s.cache, spec)
}

// ReconcileTarget reports where d is present.
func (s *Service) ReconcileTarget(ctx context.Context, d descriptor.Descriptor) (reconcile.Result, error) {
	spec, err := s.spec()
	if err != nil {
		return reconcile.Result{}, err
	}
	zones, err := local.LoadZoneTable(spec.Name)
	if err != nil {
		return reconcile.Result{}, err
	}
	key, err := d.RelativePath(zones)
	if err != nil {
		return reconcile.Result{}, fmt.Errorf("%s: %w", d.Label(), err)
	}
	return reconcile.ReconcileOne(ctx, s.cache, spec, key)
}

// Invalidate drops the cached indices of the active project.
func (s *Service) Invalidate() {
	s.cache.Invalidate(s.projects.ProjectPath())
}

// OnEvent drops the cached indices of the event's project once an
// operation ends, since it may have written an output.
func (s *Service) OnEvent(ev backend.ProcessingEvent) {
	if ev.Phase.Kind == backend.PhaseWorking {
		return
	}
	project := ev.Project
	if project == "" {
		project = s.projects.ProjectPath()
	}
	s.cache.Invalidate(project)
}

func (s *Service) spec() (*reconcile.Spec, error) {
	p, err := s.project()
	if err != nil {
		return nil, err
	}
	spec := &reconcile.Spec{
		Name:      p,
		Exported:  checks.ExportedSet(p),
		Generated: checks.GeneratedSet(p),
		CacheTTL:  s.ttl,
	}
	if s.client != nil {
		spec.Published = checks.PublishedSet(s.client, s.storage.Bucket, s.storage.Prefix)
	}
	return spec, nil
}
