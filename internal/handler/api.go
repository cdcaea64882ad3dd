package handler

import (
	"github.com/folio/internal/config"
	"github.com/folio/internal/service"
	"github.com/folio/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	tags       *service.TagService
	pages      *service.PageService
	media      *service.MediaService
	feed       *service.FeedService
	adminEmail string
	storage    string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, store storage.Store, cfg config.AppConfig) *API {
	posts := service.NewPostService(gdb)

	return &API{
		db:         gdb,
		posts:      posts,
		tags:       service.NewTagService(gdb),
		pages:      service.NewPageService(gdb),
		media:      service.NewMediaService(gdb, store),
		feed:       service.NewFeedService(posts, cfg.Site),
		adminEmail: cfg.Auth.AdminEmail,
		storage:    storageDriver(cfg.Storage),
	}
}

// DB exposes the underlying gorm instance for health checks and scripts.
func (a *API) DB() *gorm.DB {
	return a.db
}

func storageDriver(cfg config.StorageConfig) string {
	if cfg.Driver == "" {
		return "local"
	}
	return cfg.Driver
}
