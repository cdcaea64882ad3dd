// Package storage 保存上传的媒体文件，支持本地目录与 S3 兼容对象存储。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/folio/internal/config"
)

// ErrObjectExists is returned by Put when the name is already taken.
var ErrObjectExists = errors.New("storage object already exists")

// Store is the blob store behind media uploads.
type Store interface {
	// Put writes body under name and returns its public URL.
	Put(ctx context.Context, name string, body io.Reader, contentType string, size int64) (string, error)
	// Delete removes name. Deleting a missing object is not an error.
	Delete(ctx context.Context, name string) error
	// PublicURL returns the URL the front end uses to fetch name.
	PublicURL(name string) string
}

// New builds the store selected by cfg.Driver.
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, cfg.UploadURLPath)
	case "s3":
		return NewS3Store(S3Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Bucket:          cfg.Bucket,
			PublicBaseURL:   cfg.PublicBaseURL,
			ForcePathStyle:  cfg.ForcePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
