// Recomputes every user's score from the enrollments already in the store,
// without generating any new records. Useful after changing the scoring
// points in config.yaml.
//
// Usage: go run scripts/recompute_scores.go -config configs

package main

import (
	"context"
	"course_seeder/internal/app"
	"course_seeder/internal/config"
	"course_seeder/pkg/logger"
	"flag"
	"log"

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

	ctx := context.Background()
	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize", zap.Error(err))
	}
	defer application.Close(ctx)

	if err := application.RecomputeScores(ctx); err != nil {
		logger.Log.Error("recompute failed", zap.Error(err))
	}
}
