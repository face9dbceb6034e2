// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface so generated
// DAT files can be published to AWS S3 or a self-hosted MinIO instance, and so
// publishing can be mocked in tests (see core/storage/mocks).
//
// # Operations
//
//   - BucketExists / MakeBucket: used by EnsureBucket before the first upload.
//   - PutObject: uploads one file with its size and content type.
//   - ListObjects: lists published DATs for the integrity checks.
//
// Publishing is optional. Config.Enabled is false until an endpoint is set.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
