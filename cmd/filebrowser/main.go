package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"filebrowser/internal/config"
	"filebrowser/internal/logging"
	"filebrowser/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	if err := logging.Init(logging.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		OutputPath: cfg.LogOutput,
	}); err != nil {
		log.Fatalf("logging init error: %v", err)
	}
	defer logging.Sync()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := cfg.EnsureStorageRoot(); err != nil {
		logging.L().Fatal("storage root unavailable", zap.Error(err))
	}

	srv, err := server.New(cfg)
	if err != nil {
		logging.L().Fatal("failed to initialize server", zap.Error(err))
	}

	logging.L().Info("file browser starting",
		zap.String("listen", cfg.ListenAddr()),
		zap.String("storage_root", srv.Root()),
		zap.Int64("max_upload_size", cfg.MaxUploadSize),
		zap.Bool("debug", cfg.Debug))

	if err := srv.Run(cfg.ListenAddr()); err != nil {
		logging.L().Fatal("failed to start server", zap.Error(err))
	}
}
