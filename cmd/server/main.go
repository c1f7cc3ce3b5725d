package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"materials-service/internal/MinIO"
	"materials-service/internal/config"
	"materials-service/internal/diskStore"
	"materials-service/internal/handler/authHandler"
	"materials-service/internal/handler/fileHandler"
	"materials-service/internal/repository/catalogueRepo"
	"materials-service/internal/repository/moduleRepo"
	"materials-service/internal/repository/teacherRepo"
	"materials-service/internal/service"
	"materials-service/internal/service/fileService"
	"materials-service/pkg/logger"
	"materials-service/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	ctx, _ = logger.New(ctx)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to load config", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.GetLogger(ctx).Fatal("Failed to create data dir", zap.Error(err))
	}

	var blobs fileService.BlobStorage
	if cfg.MinIOEnabled {
		blobs, err = MinIO.New(ctx, cfg.MinIO)
		if err != nil {
			logger.GetLogger(ctx).Fatal("Failed to connect to MinIO", zap.Error(err))
		}
	} else {
		blobs, err = diskStore.New(cfg.UploadDir)
		if err != nil {
			logger.GetLogger(ctx).Fatal("Failed to create upload dir", zap.Error(err))
		}
	}

	seedHash, err := service.HashPassword(cfg.InitialPassword)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to hash initial password", zap.Error(err))
	}

	catalogue, err := catalogueRepo.New(filepath.Join(cfg.DataDir, "files.json"))
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to open catalogue", zap.Error(err))
	}
	teachers, err := teacherRepo.New(filepath.Join(cfg.DataDir, "teachers.json"), seedHash)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to open teacher table", zap.Error(err))
	}
	modules, err := moduleRepo.New(filepath.Join(cfg.DataDir, "modules.json"), seedHash)
	if err != nil {
		logger.GetLogger(ctx).Fatal("Failed to open module table", zap.Error(err))
	}

	authSvc := service.New(teachers, modules, cfg.FuzzyTeacherLookup)
	fileSvc := fileService.New(catalogue, blobs, cfg.MaxUploadSize)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.Logger(ctx),
		middleware.RequestLogger(),
		middleware.CORS(cfg.AllowedOrigins),
	)
	authHandler.New(authSvc).Register(router)
	fileHandler.NewFileHandler(fileSvc).Register(router)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		logger.GetLogger(ctx).Info("server started", zap.String("port", cfg.HTTPPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger(ctx).Fatal("failed to serve", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.GetLogger(ctx).Error("shutdown error", zap.Error(err))
	}
	logger.GetLogger(ctx).Info("server stopped")
}
