package main

import (
	"flag"
	"log"
	"os"

	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/service"
	"go.uber.org/zap"
)

// 示例数据生成器
func main() {
	configPath := flag.String("config", os.Getenv("FOLIO_CONFIG"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := db.EnsureAdmin(gdb, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		zlog.Fatal("failed to ensure admin account", zap.Error(err))
	}

	result, err := seed(service.NewTagService(gdb), service.NewPostService(gdb), service.NewPageService(gdb), zlog)
	if err != nil {
		zlog.Fatal("failed to seed data", zap.Error(err))
	}
	zlog.Info("seed data generated", zap.Int("tags", result.tags), zap.Int("posts", result.posts))
}
