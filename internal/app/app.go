package app

import (
	"context"
	"course_seeder/internal/config"
	"course_seeder/internal/model"
	"course_seeder/internal/repository"
	"course_seeder/internal/service"
	"course_seeder/internal/util"
	"course_seeder/pkg/database"
	"course_seeder/pkg/logger"
	"course_seeder/pkg/monitoring"
	"course_seeder/pkg/tracing"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

const leaderboardSize = 10

type App struct {
	Config   *config.Config
	Store    *repository.Store
	Redis    *redis.Client
	services *services
	tracer   *sdktrace.TracerProvider
	closers  []func(context.Context) error
}

type services struct {
	catalog     *service.CatalogService
	users       *service.UserSeedService
	enrollments *service.EnrollmentService
	scores      *service.ScoreService
	leaderboard *service.LeaderboardService
	report      *service.ReportService
}

func (a *App) initServices(cfg *config.Config, storage service.StorageProvider) *services {
	random := service.NewRandomness(cfg.Seed.RandomSeed)
	throttle := service.NewWriteThrottle(cfg.Database.MaxWritesPerSecond)

	s := &services{
		catalog:     service.NewCatalogService(a.Store.Courses, a.Store.Lessons, random, throttle, cfg.Seed),
		users:       service.NewUserSeedService(a.Store.Users, a.Store.Scores, random, throttle, cfg.Seed),
		enrollments: service.NewEnrollmentService(a.Store.Enrollments, random, throttle, cfg.Seed),
		scores:      service.NewScoreService(a.Store.Enrollments, a.Store.Scores, throttle, cfg.Scoring),
		report:      service.NewReportService(storage),
	}
	if a.Redis != nil {
		s.leaderboard = service.NewLeaderboardService(a.Redis, cfg.Redis.LeaderboardKey)
	}
	return s
}

// openStore acquires the database handle for the configured driver and
// registers its release.
func (a *App) openStore(ctx context.Context, cfg *config.DatabaseConfig) error {
	switch cfg.Driver {
	case util.DriverMongo:
		client, err := database.InitMongo(ctx, cfg)
		if err != nil {
			return err
		}
		a.Store = repository.NewMongoStore(client.Database(cfg.Name))
		a.closers = append(a.closers, client.Disconnect)
	case util.DriverMySQL, util.DriverSQLite:
		db, err := database.InitDB(cfg, a.Config.App.Mode)
		if err != nil {
			return err
		}
		a.Store = repository.NewGormStore(db)
		a.closers = append(a.closers, func(context.Context) error { return database.CloseDB(db) })
	case util.DriverMemory:
		a.Store = repository.NewMemoryStore().Store()
	default:
		return fmt.Errorf("%w: %q", util.ErrUnsupportedDriver, cfg.Driver)
	}
	return nil
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if err := app.openStore(ctx, &cfg.Database); err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Database.Driver, err)
	}
	logger.Log.Info("database connected", zap.String("driver", cfg.Database.Driver))

	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(ctx, &cfg.Redis)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		app.Redis = rdb
		app.closers = append(app.closers, func(context.Context) error { return rdb.Close() })
	}

	storage, err := service.NewStorageProvider(&cfg.Storage)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.App.Name, cfg.Tracing.Exporter, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close(ctx)
			return nil, fmt.Errorf("init tracing: %w", err)
		}
		app.tracer = tp
	}

	monitoring.Init()
	app.services = app.initServices(cfg, storage)

	return app, nil
}

// phase runs fn inside a span and records its duration.
func (a *App) phase(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := tracing.StartPhase(ctx, name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	monitoring.ObservePhase(name, start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%s: %w", name, err)
	}
	logger.Log.Info("phase finished", zap.String("phase", name), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Run seeds the catalog, the users and their enrollments, then recomputes
// every score once and reports on the result.
func (a *App) Run(ctx context.Context) error {
	started := time.Now()
	report := service.NewRunReport(a.Config.Database.Driver, a.Config.Seed.RandomSeed, started)
	logger.Log.Info("seeding started", zap.String("runId", report.RunID))

	var (
		courses []model.Course
		users   []model.User
	)

	err := a.phase(ctx, "indexes", func(ctx context.Context) error {
		return a.Store.Users.EnsureIndexes(ctx)
	})
	if err != nil {
		return err
	}

	err = a.phase(ctx, "courses", func(ctx context.Context) error {
		if _, err := a.services.catalog.GenerateCourses(ctx); err != nil {
			return err
		}
		var err error
		courses, err = a.Store.Courses.FindAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	err = a.phase(ctx, "users", func(ctx context.Context) error {
		if _, err := a.services.users.GenerateUsers(ctx, courses); err != nil {
			return err
		}
		var err error
		users, err = a.Store.Users.FindAll(ctx)
		return err
	})
	if err != nil {
		return err
	}

	err = a.phase(ctx, "enrollments", func(ctx context.Context) error {
		n, err := a.services.enrollments.GenerateAll(ctx, users, courses)
		logger.Log.Info("enrollments generated", zap.Int("count", n))
		return err
	})
	if err != nil {
		return err
	}

	standings, err := a.recompute(ctx, users)
	if err != nil {
		return err
	}
	report.Leaderboard = standingsOrBoard(ctx, a.services.leaderboard, standings)

	counts, err := a.Store.Counts(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}
	report.Counts = counts
	report.Scores = service.SummarizeScores(standings)
	report.Finish(time.Now())

	if err := a.export(ctx, report); err != nil {
		return err
	}

	logger.Log.Info("operation completed successfully",
		zap.String("runId", report.RunID),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// RecomputeScores runs only the scoring pass over the users already stored.
func (a *App) RecomputeScores(ctx context.Context) error {
	started := time.Now()

	users, err := a.Store.Users.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("find users: %w", err)
	}

	standings, err := a.recompute(ctx, users)
	if err != nil {
		return err
	}

	summary := service.SummarizeScores(standings)
	logger.Log.Info("scores recomputed",
		zap.Int("users", summary.Users),
		zap.Int("maxPoints", summary.MaxPoints),
		zap.Duration("elapsed", time.Since(started)),
	)
	a.pushMetrics()
	return nil
}

func (a *App) recompute(ctx context.Context, users []model.User) ([]model.Standing, error) {
	var standings []model.Standing
	err := a.phase(ctx, "scores", func(ctx context.Context) error {
		var err error
		standings, err = a.services.scores.RecalculateAll(ctx, users)
		return err
	})
	if err != nil {
		return nil, err
	}

	if a.services.leaderboard != nil {
		err = a.phase(ctx, "leaderboard", func(ctx context.Context) error {
			return a.services.leaderboard.Publish(ctx, standings)
		})
		if err != nil {
			return nil, err
		}
	}
	return standings, nil
}

// standingsOrBoard reads the top entries back from Redis when a board is
// published and ranks the in-memory standings otherwise.
func standingsOrBoard(ctx context.Context, board *service.LeaderboardService, standings []model.Standing) []service.LeaderboardEntry {
	ranked := service.RankStandings(standings, leaderboardSize)
	if board == nil {
		return ranked
	}

	top, err := board.Top(ctx, leaderboardSize)
	if err != nil {
		logger.Log.Warn("read leaderboard", zap.Error(err))
		return ranked
	}

	names := make(map[string]string, len(standings))
	for _, s := range standings {
		names[s.UserID.Hex()] = s.Name
	}
	for i := range top {
		top[i].Name = names[top[i].UserID]
	}
	return top
}

func (a *App) export(ctx context.Context, report *service.RunReport) error {
	location, err := a.services.report.Export(ctx, report)
	if err != nil {
		return fmt.Errorf("export report: %w", err)
	}
	if location != "" {
		logger.Log.Info("run report exported", zap.String("location", location))
	}

	a.pushMetrics()
	return nil
}

// pushMetrics failures are logged only; the seeded data is already in place.
func (a *App) pushMetrics() {
	url := a.Config.Monitoring.PushgatewayURL
	if url == "" {
		return
	}
	if err := monitoring.Push(url, a.Config.Monitoring.Job); err != nil {
		logger.Log.Warn("push metrics", zap.String("url", url), zap.Error(err))
	}
}

// Close releases every handle NewApp acquired, newest first.
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			logger.Log.Error("Failed to close connection", zap.Error(err))
		}
	}
	a.closers = nil
}
