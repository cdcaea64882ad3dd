package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/folio/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 根据配置连接 sqlite 或 postgres，并执行自动迁移。
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			path = "folio.db"
		}
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
		dialector = sqlite.Open(path)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate registers the post_tags join model and creates the content tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.SetupJoinTable(&Post{}, "Tags", &PostTag{}); err != nil {
		return err
	}

	// 自动迁移模式，为核心模型创建表
	if err := gdb.AutoMigrate(
		&User{},
		&Tag{},
		&Post{},
		&PostTag{},
		&Page{},
		&MediaObject{},
	); err != nil {
		return err
	}
	return backfillTagNameKeys(gdb)
}

// backfillTagNameKeys fills name_key for tags created before the column existed.
func backfillTagNameKeys(gdb *gorm.DB) error {
	var tags []Tag
	if err := gdb.Where("name_key IS NULL OR name_key = ''").Find(&tags).Error; err != nil {
		return err
	}
	for _, tag := range tags {
		if err := gdb.Model(&Tag{}).Where("id = ?", tag.ID).Update("name_key", TagNameKey(tag.Name)).Error; err != nil {
			return fmt.Errorf("backfill name_key for tag %d: %w", tag.ID, err)
		}
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
