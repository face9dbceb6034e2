package session

import (
	"context"
	"errors"
	"fmt"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"
	"dat-workbench/feature/bridge"
	"dat-workbench/feature/folders"
	"dat-workbench/feature/logs"
	"dat-workbench/feature/processing"
	"dat-workbench/feature/workingfiles"

	"go.uber.org/zap"
)

var (
	// ErrNotReady is returned when processing is requested before both
	// folders are set.
	ErrNotReady = errors.New("data and project folders must be selected")
	// ErrInFlight is returned when the same operation is already running.
	ErrInFlight = errors.New("operation already in progress")
)

// Option customizes a Session.
type Option func(*options)

type options struct {
	notifier folders.Notifier
	sinks    []bridge.ProcessingSink
}

// WithNotifier routes folder selection failures to n.
func WithNotifier(n folders.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithProcessingSinks adds extra consumers of the processing stream.
func WithProcessingSinks(sinks ...bridge.ProcessingSink) Option {
	return func(o *options) { o.sinks = append(o.sinks, sinks...) }
}

// Session wires the client-side state for one backend.
type Session struct {
	backend backend.Backend
	logger  *zap.Logger

	folders      *folders.Context
	processing   *processing.Ledger
	workingFiles *workingfiles.Ledger
	logs         *logs.Aggregator
	bridge       *bridge.Bridge

	ctx    context.Context
	cancel context.CancelFunc
}

// Status is a point-in-time summary of the session.
type Status struct {
	folders.Snapshot
	Ready        bool `json:"ready"`
	CanProcess   bool `json:"can_process"`
	InFlight     int  `json:"in_flight"`
	WorkingFiles int  `json:"working_files"`
	LogEntries   int  `json:"log_entries"`
}

// New builds the folder context, the ledgers and the log aggregator, starts
// the event bridge and finally applies the persisted settings. A settings
// load failure is reported to the notifier and leaves both folders empty.
func New(ctx context.Context, b backend.Backend, logger *zap.Logger, opts ...Option) *Session {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		backend: b,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	s.folders = folders.New(b, o.notifier, logger)
	s.processing = processing.New(s.folders, logger)
	s.workingFiles = workingfiles.New(b, logger)
	s.logs = logs.New(logger)

	s.folders.ObserveSelections(s.processing)
	s.folders.OnProjectChange(s.onProjectChange)

	sinks := append([]bridge.ProcessingSink{s.processing, s.logs}, o.sinks...)
	s.bridge = bridge.New(b.Subscribe(), logger).
		OnProcessing(sinks...).
		OnFileChange(s.workingFiles)
	s.bridge.Start()

	if err := s.folders.Load(ctx); err != nil {
		logger.Warn("Starting without persisted folders", zap.Error(err))
	}
	return s
}

func (s *Session) onProjectChange(previous, current string) {
	s.logger.Info("Active project changed", zap.String("previous", previous), zap.String("current", current))
	// Selections already moved the ledger; only other changes reset it.
	if s.processing.Project() != current {
		s.processing.Reset(current)
	}
	s.workingFiles.Reload(s.ctx, current)
}

// Close stops the bridge and cancels pending enumerations.
func (s *Session) Close() {
	s.cancel()
	s.bridge.Close()
	s.workingFiles.Wait()
}

// Folders returns the folder context.
func (s *Session) Folders() *folders.Context { return s.folders }

// Processing returns the processing ledger.
func (s *Session) Processing() *processing.Ledger { return s.processing }

// WorkingFiles returns the working file ledger.
func (s *Session) WorkingFiles() *workingfiles.Ledger { return s.workingFiles }

// Logs returns the log aggregator.
func (s *Session) Logs() *logs.Aggregator { return s.logs }

// Backend returns the backend the session talks to.
func (s *Session) Backend() backend.Backend { return s.backend }

// Status returns a summary of the current state.
func (s *Session) Status() Status {
	return Status{
		Snapshot:     s.folders.Snapshot(),
		Ready:        s.folders.Ready(),
		CanProcess:   s.processing.CanProcess(),
		InFlight:     s.processing.Count(),
		WorkingFiles: len(s.workingFiles.Keys()),
		LogEntries:   s.logs.Len(),
	}
}

// SetDataPath selects the game data folder.
func (s *Session) SetDataPath(ctx context.Context, path string) {
	s.folders.SetBackendDataPath(ctx, path)
}

// SetProjectPath selects the project folder.
func (s *Session) SetProjectPath(ctx context.Context, path string) {
	s.folders.SetProjectPath(ctx, path)
}

// Export requests an export of d.
func (s *Session) Export(ctx context.Context, d descriptor.Descriptor) error {
	if err := s.check(backend.OperationExport, d); err != nil {
		return err
	}
	return s.backend.RequestExport(ctx, d)
}

// Generate requests a DAT generation for d.
func (s *Session) Generate(ctx context.Context, d descriptor.Descriptor) error {
	if err := s.check(backend.OperationGenerate, d); err != nil {
		return err
	}
	return s.backend.RequestGenerate(ctx, d)
}

// ExportAll requests an export of every fixed-category target.
func (s *Session) ExportAll(ctx context.Context) error {
	if !s.processing.CanProcess() {
		return ErrNotReady
	}
	return s.backend.RequestExportAll(ctx)
}

// GenerateAll requests a generation for every existing export file.
func (s *Session) GenerateAll(ctx context.Context) error {
	if !s.processing.CanProcess() {
		return ErrNotReady
	}
	return s.backend.RequestGenerateAll(ctx)
}

func (s *Session) check(kind backend.OperationKind, d descriptor.Descriptor) error {
	if !d.IsValid() {
		return fmt.Errorf("%w: %v", backend.ErrUnknownCategory, d)
	}
	if !s.processing.CanProcess() {
		return ErrNotReady
	}
	if s.processing.IsInFlight(kind, d) {
		return fmt.Errorf("%w: %s %s", ErrInFlight, kind, d.Label())
	}
	return nil
}
