package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/folio/internal/apperr"
	"github.com/folio/internal/db"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/storage"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

// MaxUploadSize 单个媒体文件的大小上限。
const MaxUploadSize = 10 << 20

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// MediaService indexes uploaded images and keeps the blob store in step with the index.
type MediaService struct {
	db    *gorm.DB
	store storage.Store
	now   func() time.Time
}

// NewMediaService creates a MediaService backed by store.
func NewMediaService(gdb *gorm.DB, store storage.Store) *MediaService {
	return &MediaService{db: gdb, store: store, now: time.Now}
}

// Upload stores an image under a timestamped, sanitized name and records it.
func (s *MediaService) Upload(ctx context.Context, fileName, contentType string, data []byte) (*db.MediaObject, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperr.Validation("only image uploads are allowed")
	}
	if len(data) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}
	if len(data) > MaxUploadSize {
		return nil, apperr.Validation("uploaded file exceeds %d MB", MaxUploadSize>>20)
	}

	base := SanitizeFileName(fileName)
	if base == "" {
		return nil, apperr.Validation("file name is required")
	}

	now := s.now()
	object := db.MediaObject{
		FileName:    fmt.Sprintf("%d-%s", now.UnixMilli(), base),
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   now,
	}
	// svg 等矢量格式无法探测尺寸，记为 0
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		object.Width = cfg.Width
		object.Height = cfg.Height
	}

	url, err := s.store.Put(ctx, object.FileName, bytes.NewReader(data), contentType, object.Size)
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, apperr.Conflict("a file named %q already exists", object.FileName)
		}
		return nil, apperr.Persistence("failed to store upload", err)
	}
	object.URL = url

	if err := s.db.Create(&object).Error; err != nil {
		if delErr := s.store.Delete(ctx, object.FileName); delErr != nil {
			logger.Get().Warn("remove orphaned upload", zap.String("file", object.FileName), zap.Error(delErr))
		}
		return nil, apperr.Persistence("failed to record upload", err)
	}
	return &object, nil
}

// List returns uploads newest first.
func (s *MediaService) List() ([]db.MediaObject, error) {
	var objects []db.MediaObject
	if err := s.db.Order("created_at desc").Order("id desc").Find(&objects).Error; err != nil {
		return nil, apperr.Persistence("failed to list media", err)
	}
	return objects, nil
}

// Delete removes the blob and then its index row.
func (s *MediaService) Delete(ctx context.Context, fileName string) error {
	var object db.MediaObject
	if err := s.db.Where("file_name = ?", fileName).First(&object).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("media %q not found", fileName)
		}
		return apperr.Persistence("failed to fetch media", err)
	}

	if err := s.store.Delete(ctx, object.FileName); err != nil {
		return apperr.Persistence("failed to delete stored file", err)
	}
	if err := s.db.Delete(&object).Error; err != nil {
		return apperr.Persistence("failed to delete media record", err)
	}
	return nil
}

// SanitizeFileName keeps the base name and replaces anything outside [a-zA-Z0-9.-] with "_".
func SanitizeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}
