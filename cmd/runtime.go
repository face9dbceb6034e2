package cmd

import (
	"context"
	"fmt"

	"dat-workbench/core/backend/local"
	"dat-workbench/core/config"
	"dat-workbench/core/logger"
	"dat-workbench/core/storage"
	"dat-workbench/feature/folders"
	"dat-workbench/feature/integrity"
	"dat-workbench/feature/logs"
	"dat-workbench/feature/publish"
	"dat-workbench/feature/session"

	"go.uber.org/zap"
)

// runtime bundles what every long-running command needs.
type runtime struct {
	cfg       *config.Config
	logger    *zap.Logger
	backend   *local.Backend
	session   *session.Session
	publisher *publish.Publisher
	integrity *integrity.Service
}

func loadRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	be, err := local.New(cfg.Backend, local.ExecConverter{Command: cfg.Backend.ConverterCommand}, logg)
	if err != nil {
		return nil, fmt.Errorf("failed to start backend: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg, backend: be}

	var client storage.Client
	if cfg.Storage.Enabled() {
		client, err = newStorageClient(ctx, cfg.Storage, logg)
		if err != nil {
			logg.Warn("Publishing disabled", zap.Error(err))
		}
	}

	// Project paths are read only after the session below is assigned.
	rt.integrity = integrity.NewService(integrity.ProjectsFunc(func() string {
		return rt.session.Folders().ProjectPath()
	}), client, cfg.Storage, logg)

	opts := []session.Option{
		session.WithNotifier(folders.NewLogNotifier(logg)),
		session.WithProcessingSinks(rt.integrity),
	}
	if client != nil {
		rt.publisher = publish.New(ctx, client, cfg.Storage, logg)
		opts = append(opts, session.WithProcessingSinks(rt.publisher))
	}

	rt.session = session.New(ctx, be, logg, opts...)
	rt.session.Logs().OnAppend(func(e logs.Entry) {
		if e.IsError {
			logg.Error(e.Message, zap.String("descriptor", e.Label), zap.String("kind", string(e.Kind)))
			return
		}
		logg.Info(e.Message, zap.String("descriptor", e.Label), zap.String("path", e.SourcePath))
	})
	return rt, nil
}

func newStorageClient(ctx context.Context, cfg storage.Config, logg *zap.Logger) (storage.Client, error) {
	client, err := storage.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		return nil, err
	}
	logg.Info("Publishing generated DATs", zap.String("endpoint", cfg.Endpoint), zap.String("bucket", cfg.Bucket))
	return client, nil
}

// selectFolders applies folder flags on top of the persisted state.
func (rt *runtime) selectFolders(ctx context.Context, data, project string) {
	if data != "" {
		rt.session.SetDataPath(ctx, data)
	}
	if project != "" {
		rt.session.SetProjectPath(ctx, project)
	}
}

func (rt *runtime) Close() {
	rt.session.Close()
	if err := rt.backend.Close(); err != nil {
		rt.logger.Warn("Backend shutdown failed", zap.Error(err))
	}
	if rt.publisher != nil {
		rt.publisher.Wait()
	}
	_ = rt.logger.Sync()
}
