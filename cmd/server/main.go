package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/folio/internal/config"
	"github.com/folio/internal/db"
	"github.com/folio/internal/handler"
	"github.com/folio/internal/logger"
	"github.com/folio/internal/router"
	"github.com/folio/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

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

	gin.SetMode(cfg.Server.GinMode)

	// 初始化数据库
	gdb, err := db.Open(cfg.Database)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	if err := db.EnsureAdmin(gdb, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		zlog.Fatal("failed to ensure admin account", zap.Error(err))
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		zlog.Fatal("failed to initialize storage", zap.Error(err))
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(gdb, store, cfg)
	srv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           router.SetupRouter(api, cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server listening",
			zap.String("addr", cfg.Server.ListenAddr),
			zap.String("database", cfg.Database.Driver),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("failed to run server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("server forced to shutdown", zap.Error(err))
	}
}
