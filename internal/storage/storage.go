// Package storage keeps uploaded resumes and generated reports in a blob store.
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
)

// BlobStore stores opaque objects under slash separated keys.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// LatestReportKey holds the most recently generated report.
const LatestReportKey = "reports/ats_report.pdf"

// ResumeKey returns a unique key for an uploaded resume, bucketed by month.
func ResumeKey(now time.Time, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("resumes/%s/%s%s", now.UTC().Format("2006/01"), uuid.NewString(), ext)
}

// ReportKey returns the key of a report generated under id.
func ReportKey(id string) string {
	return path.Join("reports", id+".pdf")
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (BlobStore, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Local.Dir)
	case "s3":
		return NewS3Store(ctx, cfg.S3)
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unknown storage backend %q", cfg.Backend), nil)
	}
}

func notFound(key string, cause error) error {
	return errors.NewNotFoundError(errors.ErrCodeObjectNotFound, fmt.Sprintf("object not found: %s", key), cause)
}

func storageFailed(op, key string, cause error) error {
	return errors.NewStorageError(errors.ErrCodeStorageFailed, fmt.Sprintf("failed to %s %s", op, key), cause)
}
