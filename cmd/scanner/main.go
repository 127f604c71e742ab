package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ashare/internal/config"
	cronrunner "ashare/internal/cron"
	"ashare/internal/db"
	"ashare/internal/handler"
	"ashare/internal/logger"
	"ashare/internal/pipeline"
	gormrepository "ashare/internal/repository/gorm"
)

func main() {
	cfgPath := os.Getenv("AS_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("AS_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	roster, err := pipeline.LoadRoster(cfg.Data.RosterPath)
	if err != nil {
		logger.Fatal("roster load failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)
	pipe, err := pipeline.New(cfg, logger, store, roster)
	if err != nil {
		logger.Fatal("pipeline init failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !cfg.Server.Enabled {
		// One-shot mode: run the scan and exit.
		if _, err := pipe.Run(ctx); err != nil {
			logger.Fatal("scan failed", zap.Error(err))
		}
		return
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(engine)
	scanHandler := &handler.ScanHandler{Repo: store, Pipeline: pipe, Logger: logger}
	scanHandler.Register(engine)

	cronRunner := cronrunner.New(logger, ctx)
	if cfg.Cron.Enabled {
		if _, err := cronRunner.Add("ingest", cfg.Cron.Ingest, func(ctx context.Context) {
			if _, err := pipe.Run(ctx); err != nil {
				logger.Warn("scheduled scan failed", zap.Error(err))
			}
		}); err != nil {
			logger.Warn("cron register ingest failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: engine,
	}
	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	if err := srv.Shutdown(context.Background()); err != nil {
		logger.Warn("http shutdown failed", zap.Error(err))
	}
}
