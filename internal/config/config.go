package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/emika-opensource/marketing-manager/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	MongoDB    MongoDBConfig
	Redis      RedisConfig
	MinIO      MinIOConfig
	Generation GenerationConfig
	RateLimit  RateLimitConfig
	Metrics    MetricsConfig
	LogLevel   string
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// StoreConfig selects the durable medium behind every collection.
type StoreConfig struct {
	Backend     string // file | memory | sqlite | mongo | redis
	DataDir     string
	FallbackDir string
	SQLitePath  string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Prefix   string
}

// Addr is empty when no Redis host is configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// Enabled reports whether artifact mirroring can be switched on.
func (m MinIOConfig) Enabled() bool {
	return m.Endpoint != "" && m.Bucket != ""
}

type GenerationConfig struct {
	FalKey        string
	ImageEndpoint string
	VideoEndpoint string
	Workers       int
	QueueSize     int
	HTTPTimeout   time.Duration // 0 means the transport default (none)
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type MetricsConfig struct {
	RefreshSchedule string
}

// LoadConfig loads configuration from environment variables and an optional
// .env file in the working directory. Missing optional sections leave the
// matching feature disabled.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("SERVER_READ_TIMEOUT", 30)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 30)
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("STORE_BACKEND", "file")
	v.SetDefault("DATA_DIR", "/home/node/emika/marketing-hub")
	v.SetDefault("DATA_FALLBACK_DIR", "./data")
	v.SetDefault("SQLITE_PATH", "")

	v.SetDefault("MONGODB_DATABASE", "marketing")
	v.SetDefault("MONGODB_COLLECTION", "collections")
	v.SetDefault("MONGODB_TIMEOUT", 10)

	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "collection:")

	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_BUCKET", "")

	v.SetDefault("GENERATION_IMAGE_ENDPOINT", "https://fal.run/fal-ai/flux/dev")
	v.SetDefault("GENERATION_VIDEO_ENDPOINT", "https://fal.run/fal-ai/fast-svd-lcm")
	v.SetDefault("GENERATION_WORKERS", 4)
	v.SetDefault("GENERATION_QUEUE_SIZE", 64)
	v.SetDefault("GENERATION_HTTP_TIMEOUT", 0)

	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	v.SetDefault("METRICS_REFRESH_SCHEDULE", "@every 30s")

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  time.Duration(v.GetInt("SERVER_READ_TIMEOUT")) * time.Second,
			WriteTimeout: time.Duration(v.GetInt("SERVER_WRITE_TIMEOUT")) * time.Second,
		},
		Store: StoreConfig{
			Backend:     strings.ToLower(v.GetString("STORE_BACKEND")),
			DataDir:     v.GetString("DATA_DIR"),
			FallbackDir: v.GetString("DATA_FALLBACK_DIR"),
			SQLitePath:  v.GetString("SQLITE_PATH"),
		},
		MongoDB: MongoDBConfig{
			URI:        v.GetString("MONGODB_URI"),
			Database:   v.GetString("MONGODB_DATABASE"),
			Collection: v.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		MinIO: MinIOConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
			Bucket:    v.GetString("MINIO_BUCKET"),
		},
		Generation: GenerationConfig{
			FalKey:        v.GetString("FAL_KEY"),
			ImageEndpoint: v.GetString("GENERATION_IMAGE_ENDPOINT"),
			VideoEndpoint: v.GetString("GENERATION_VIDEO_ENDPOINT"),
			Workers:       v.GetInt("GENERATION_WORKERS"),
			QueueSize:     v.GetInt("GENERATION_QUEUE_SIZE"),
			HTTPTimeout:   time.Duration(v.GetInt("GENERATION_HTTP_TIMEOUT")) * time.Second,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Metrics: MetricsConfig{
			RefreshSchedule: v.GetString("METRICS_REFRESH_SCHEDULE"),
		},
		LogLevel: v.GetString("LOG_LEVEL"),
	}

	// Basic validation
	if cfg.Store.Backend == "mongo" && cfg.MongoDB.URI == "" {
		logger.Warnf("STORE_BACKEND=mongo but MONGODB_URI is not set; falling back to file store")
		cfg.Store.Backend = "file"
	}
	if cfg.Store.Backend == "redis" && cfg.Redis.Addr() == "" {
		logger.Warnf("STORE_BACKEND=redis but REDIS_HOST is not set; falling back to file store")
		cfg.Store.Backend = "file"
	}
	if cfg.RateLimit.UseRedis && cfg.Redis.Addr() == "" {
		logger.Warnf("RATE_LIMIT_USE_REDIS set without REDIS_HOST; using in-memory limiter")
		cfg.RateLimit.UseRedis = false
	}
	if cfg.Generation.Workers < 1 {
		cfg.Generation.Workers = 1
	}
	if cfg.Generation.QueueSize < 0 {
		cfg.Generation.QueueSize = 0
	}

	return cfg, nil
}
