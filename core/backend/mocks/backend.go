package mocks

import (
	"context"

	"dat-workbench/core/backend"
	"dat-workbench/core/descriptor"

	"github.com/stretchr/testify/mock"
)

// Backend is a mock implementation of backend.Backend
type Backend struct {
	mock.Mock
}

func (m *Backend) SelectBackendDataFolder(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

func (m *Backend) SelectProjectFolder(ctx context.Context, path string) ([]string, error) {
	args := m.Called(ctx, path)
	if recent, ok := args.Get(0).([]string); ok {
		return recent, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) LoadPersistedSettings(ctx context.Context) (backend.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(backend.Settings), args.Error(1)
}

func (m *Backend) EnumerateFixedCategoryTargets(ctx context.Context, group backend.FixedGroup) ([]descriptor.Descriptor, error) {
	args := m.Called(ctx, group)
	if ds, ok := args.Get(0).([]descriptor.Descriptor); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) EnumerateZoneScopedTargets(ctx context.Context, category descriptor.Category) ([]backend.ZoneInfo, error) {
	args := m.Called(ctx, category)
	if zones, ok := args.Get(0).([]backend.ZoneInfo); ok {
		return zones, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) EnumerateExistingExportedTargets(ctx context.Context) ([]descriptor.Descriptor, error) {
	args := m.Called(ctx)
	if ds, ok := args.Get(0).([]descriptor.Descriptor); ok {
		return ds, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Backend) RequestExport(ctx context.Context, d descriptor.Descriptor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *Backend) RequestGenerate(ctx context.Context, d descriptor.Descriptor) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *Backend) RequestExportAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Backend) RequestGenerateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Backend) Subscribe() backend.Subscription {
	args := m.Called()
	return args.Get(0).(backend.Subscription)
}

// Streams is a hand driven pair of event channels for Subscribe.
type Streams struct {
	Processing  chan backend.ProcessingEvent
	FileChanges chan backend.FileChangeEvent
	closed      chan struct{}
}

// NewStreams creates unbuffered streams.
func NewStreams() *Streams {
	return &Streams{
		Processing:  make(chan backend.ProcessingEvent),
		FileChanges: make(chan backend.FileChangeEvent),
		closed:      make(chan struct{}),
	}
}

// Subscription wraps the streams; Unsubscribe closes both channels once.
func (s *Streams) Subscription() backend.Subscription {
	return backend.Subscription{
		Processing:  s.Processing,
		FileChanges: s.FileChanges,
		Unsubscribe: func() {
			select {
			case <-s.closed:
			default:
				close(s.closed)
				close(s.Processing)
				close(s.FileChanges)
			}
		},
	}
}

// Closed is closed after Unsubscribe.
func (s *Streams) Closed() <-chan struct{} {
	return s.closed
}
