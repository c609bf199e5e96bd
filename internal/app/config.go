package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/db"
	"github.com/mestudy/mestudy-core/internal/platform/llm"
	"github.com/spf13/viper"
)

type Config struct {
	Log         LogConfig         `mapstructure:"log"`
	Database    DatabaseConfig    `mapstructure:"database"`
	LLM         LLMConfig         `mapstructure:"llm"`
	OfflineMode bool              `mapstructure:"offline_mode"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Minio       MinioConfig       `mapstructure:"minio"`
	DefaultUser DefaultUserConfig `mapstructure:"default_user"`
	Tracing     TracingConfig     `mapstructure:"tracing"`
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"`

	// File enables a rotated JSON log file; empty logs to the console only.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	BusyTimeout time.Duration `mapstructure:"busy_timeout"`
}

type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Temperature float64       `mapstructure:"temperature"`

	// RequestsPerMinute caps model calls; zero is unlimited.
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

type CacheConfig struct {
	// Driver is "file", "redis" or "minio".
	Driver string        `mapstructure:"driver"`
	Dir    string        `mapstructure:"dir"`
	TTL    time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type MinioConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	Secure    bool   `mapstructure:"secure"`
}

type DefaultUserConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
	Grade string `mapstructure:"grade"`
}

// dataDir is <user config dir>/mestudy, or ./.mestudy when that is unknown.
func dataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ".mestudy"
	}
	return filepath.Join(base, "mestudy")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".mestudy"))
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("log.mode", "LOG_MODE")
	_ = v.BindEnv("database.path", "MESTUDY_DB_PATH")
	_ = v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("llm.model", "OPENAI_MODEL")
	_ = v.BindEnv("offline_mode", "OFFLINE_MODE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("minio.bucket", "MINIO_BUCKET")
	_ = v.BindEnv("tracing.enabled", "OTEL_ENABLED")
	_ = v.BindEnv("tracing.endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	dir := dataDir()
	v.SetDefault("log.mode", "development")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
	v.SetDefault("database.path", filepath.Join(dir, db.DefaultFileName))
	v.SetDefault("database.busy_timeout", 5*time.Second)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", llm.DefaultBaseURL)
	v.SetDefault("llm.model", llm.DefaultModel)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.requests_per_minute", 0)
	v.SetDefault("offline_mode", false)
	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.dir", filepath.Join(dir, "cache"))
	v.SetDefault("cache.ttl", time.Duration(0))
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "mestudy:blob:")
	v.SetDefault("minio.endpoint", "")
	v.SetDefault("minio.access_key", "")
	v.SetDefault("minio.secret_key", "")
	v.SetDefault("minio.bucket", "mestudy-cache")
	v.SetDefault("minio.secure", false)
	v.SetDefault("default_user.name", "usertest")
	v.SetDefault("default_user.email", "usertest@gmail.com")
	v.SetDefault("default_user.grade", "10")
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "")
	v.SetDefault("tracing.insecure", false)
	v.SetDefault("tracing.sample_ratio", 0.1)
	return v
}

// LoadConfig reads config.yaml when present, then the environment, then defaults.
func LoadConfig() (Config, error) {
	return loadConfig(newViper())
}

func loadConfig(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Cache.Driver = strings.ToLower(strings.TrimSpace(cfg.Cache.Driver))
	switch cfg.Cache.Driver {
	case "file", "redis", "minio":
	default:
		return Config{}, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
	return cfg, nil
}
