package checks

import (
	"context"
	"fmt"
	"strings"

	"dat-workbench/core/backend/local"
	"dat-workbench/core/reconcile"
	"dat-workbench/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageReport describes the publishing target.
type StorageReport struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket,omitempty"`
	Exists  bool   `json:"exists"`
	Objects int    `json:"objects"`
}

// CheckStorage reports whether bucket exists and how many DATs it holds
// below prefix.
func CheckStorage(ctx context.Context, client storage.Client, bucket, prefix string) (*StorageReport, error) {
	report := &StorageReport{Enabled: true, Bucket: bucket}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.Exists = exists
	if !exists {
		return report, nil
	}

	set, err := PublishedSet(client, bucket, prefix)(ctx)
	if err != nil {
		return nil, err
	}
	report.Objects = len(set)
	return report, nil
}

// PublishedSet indexes the DAT objects below prefix, keyed the same way
// as GeneratedSet.
func PublishedSet(client storage.Client, bucket, prefix string) reconcile.Loader {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return func(ctx context.Context) (reconcile.Set, error) {
		set := reconcile.Set{}
		opts := minio.ListObjectsOptions{Prefix: prefix, Recursive: true}
		for obj := range client.ListObjects(ctx, bucket, opts) {
			if obj.Err != nil {
				return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
			}
			name := strings.TrimPrefix(obj.Key, prefix)
			key := TrimKey(name, local.DatExt)
			if key == name || key == "" {
				continue
			}
			set.Add(key)
		}
		return set, nil
	}
}
