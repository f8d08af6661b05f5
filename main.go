package main

import (
	"context"
	"course_seeder/internal/app"
	"course_seeder/internal/config"
	"course_seeder/pkg/logger"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		logger.Log.Error("seeding failed", zap.Error(err))
		return
	}
	defer application.Close(context.Background())

	// A failed run is logged only and the process still exits 0.
	if err := application.Run(ctx); err != nil {
		logger.Log.Error("seeding failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
	}
}
