package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig
	Log        LogConfig
	Database   DatabaseConfig
	Seed       SeedConfig
	Scoring    ScoringConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Monitoring MonitoringConfig
	Tracing    TracingConfig `mapstructure:"tracing"`
}

type AppConfig struct {
	Name string
	Mode string
}

type LogConfig struct {
	File       string
	MaxSize    int `mapstructure:"max_size"`
	MaxBackups int `mapstructure:"max_backups"`
	MaxAge     int `mapstructure:"max_age"`
	Compress   bool
}

// DatabaseConfig selects the persistence gateway. Driver is one of
// mongo, mysql, sqlite or memory.
type DatabaseConfig struct {
	Driver             string
	MongoURI           string `mapstructure:"mongo_uri"`
	Name               string
	Host               string
	Port               int
	User               string
	Password           string
	DBName             string `mapstructure:"dbname"`
	Charset            string
	ParseTime          bool          `mapstructure:"parse_time"`
	SQLitePath         string        `mapstructure:"sqlite_path"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout"`
	MaxWritesPerSecond int           `mapstructure:"max_writes_per_second"`
}

type SeedConfig struct {
	Courses           int
	LessonsPerCourse  int   `mapstructure:"lessons_per_course"`
	Users             int
	MaxEnrollments    int   `mapstructure:"max_enrollments"`
	UniqueCompletions bool  `mapstructure:"unique_completions"`
	RandomSeed        int64 `mapstructure:"random_seed"`
	Password          string
	BcryptCost        int `mapstructure:"bcrypt_cost"`
}

type ScoringConfig struct {
	JoinCoursePoint      int `mapstructure:"join_course_point"`
	CompletedLessonPoint int `mapstructure:"completed_lesson_point"`
	CompletedCoursePoint int `mapstructure:"completed_course_point"`
}

type RedisConfig struct {
	Enabled        bool
	Host           string
	Port           int
	Password       string
	DB             int
	LeaderboardKey string `mapstructure:"leaderboard_key"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type MonitoringConfig struct {
	PushgatewayURL string `mapstructure:"pushgateway_url"`
	Job            string
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Exporter          string `mapstructure:"exporter"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "course-seeder")
	v.SetDefault("app.mode", "release")

	v.SetDefault("log.file", "logs/seeder.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.mongo_uri", "mongodb://localhost:27017/")
	v.SetDefault("database.name", "patika-dev")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "patika_dev")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.sqlite_path", "seeder.db")
	v.SetDefault("database.connect_timeout", 10*time.Second)
	v.SetDefault("database.max_writes_per_second", 0)

	v.SetDefault("seed.courses", 30)
	v.SetDefault("seed.lessons_per_course", 20)
	v.SetDefault("seed.users", 1000)
	v.SetDefault("seed.max_enrollments", 10)
	v.SetDefault("seed.unique_completions", false)
	v.SetDefault("seed.random_seed", 0)
	v.SetDefault("seed.password", "patika123")
	v.SetDefault("seed.bcrypt_cost", 4)

	v.SetDefault("scoring.join_course_point", 2)
	v.SetDefault("scoring.completed_lesson_point", 1)
	v.SetDefault("scoring.completed_course_point", 10)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.leaderboard_key", "leaderboard:total_points")

	v.SetDefault("storage.type", "none")
	v.SetDefault("storage.local_path", "reports")
	v.SetDefault("storage.minio_endpoint", "")
	v.SetDefault("storage.minio_access_key", "")
	v.SetDefault("storage.minio_secret_key", "")
	v.SetDefault("storage.minio_bucket", "seed-reports")
	v.SetDefault("storage.minio_use_ssl", false)

	v.SetDefault("monitoring.pushgateway_url", "")
	v.SetDefault("monitoring.job", "course_seeder")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter", "jaeger")
	v.SetDefault("tracing.collector_endpoint", "http://localhost:14268/api/traces")
}

// LoadConfig reads config.yaml from path when it exists. A missing file is not
// an error: the defaults reproduce the original seeding constants.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("SEEDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Database
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.mongo_uri", "MONGO_URI")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	// Redis
	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	// Storage
	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	cfg.Storage.Type = strings.ToLower(strings.TrimSpace(cfg.Storage.Type))

	return &cfg, nil
}
