package publish

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"dat-workbench/core/backend"
	"dat-workbench/core/backend/local"
	"dat-workbench/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Publisher uploads every successfully generated DAT to object storage.
type Publisher struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger

	ctx     context.Context
	uploads sync.WaitGroup
}

// New creates a publisher for cfg.Bucket. ctx bounds every upload.
func New(ctx context.Context, client storage.Client, cfg storage.Config, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger.With(zap.String("bucket", cfg.Bucket)),
		ctx:    ctx,
	}
}

// OnEvent starts an upload for a Finished Generate event. Everything else
// is ignored. Upload failures are only logged.
func (p *Publisher) OnEvent(ev backend.ProcessingEvent) {
	if ev.Kind != backend.OperationGenerate || ev.Phase.Kind != backend.PhaseFinished || ev.Phase.Path == "" {
		return
	}

	p.uploads.Add(1)
	go func() {
		defer p.uploads.Done()
		key := p.ObjectName(ev.Project, ev.Phase.Path)
		if err := p.upload(ev.Phase.Path, key); err != nil {
			p.logger.Error("Failed to publish DAT",
				zap.String("descriptor", ev.Descriptor.Label()),
				zap.String("path", ev.Phase.Path),
				zap.Error(err),
			)
			return
		}
		p.logger.Info("Published DAT", zap.String("descriptor", ev.Descriptor.Label()), zap.String("object", key))
	}()
}

// Wait blocks until every started upload has returned.
func (p *Publisher) Wait() {
	p.uploads.Wait()
}

// ObjectName keys file by its path below <project>/generated_dats, or by
// its base name when it lies elsewhere.
func (p *Publisher) ObjectName(project, file string) string {
	name := filepath.Base(file)
	if project != "" {
		root := filepath.Join(project, local.GeneratedDir)
		if rel, err := filepath.Rel(root, file); err == nil && !strings.HasPrefix(rel, "..") {
			name = filepath.ToSlash(rel)
		}
	}
	if p.prefix == "" {
		return name
	}
	return path.Join(p.prefix, name)
}

func (p *Publisher) upload(file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", file, err)
	}

	_, err = p.client.PutObject(p.ctx, p.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
