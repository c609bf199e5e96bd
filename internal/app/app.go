package app

import (
	"context"
	"fmt"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/store"
	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"github.com/mestudy/mestudy-core/internal/platform/blobstore"
	"github.com/mestudy/mestudy-core/internal/platform/llm"
	"github.com/mestudy/mestudy-core/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	gormLogger "gorm.io/gorm/logger"
)

type Services struct {
	Users      services.UserService
	StudyPlans services.StudyPlanService
	Quizzes    services.QuizService
	StudyTips  services.StudyTipsService
}

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Store    *store.Store
	Blobs    blobstore.Store
	Registry *prometheus.Registry
	Metrics  *observability.Metrics
	Services Services

	closers []func() error
}

// New wires the store, caches, model client and services. A store that cannot
// be opened is logged and left disconnected; its operations then fail with
// not_connected.
func New(ctx context.Context, cfg Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	shutdownTracing := observability.InitTracing(ctx, log, observability.TracingConfig{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "mestudy",
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	st := store.New(log, store.Options{
		Path:        cfg.Database.Path,
		BusyTimeout: cfg.Database.BusyTimeout,
		LogLevel:    gormLogger.Warn,
		Metrics:     metrics,
	})
	if err := st.Initialize(ctx); err != nil {
		log.Error("store unavailable", "path", cfg.Database.Path, "error", err)
	}

	a := &App{Log: log, Cfg: cfg, Store: st, Registry: reg, Metrics: metrics}
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return shutdownTracing(ctx)
	}, st.Close)

	blobs, err := a.wireBlobs(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Blobs = blobs

	gen := a.wireGenerator()
	genCfg := services.GenerationConfig{Generator: gen, Blobs: blobs, Offline: cfg.OfflineMode}
	a.Services = Services{
		Users:      services.NewUserService(log, st),
		StudyPlans: services.NewStudyPlanService(log, st, genCfg),
		Quizzes:    services.NewQuizService(log, st, genCfg),
		StudyTips:  services.NewStudyTipsService(log, genCfg),
	}
	return a, nil
}

func (a *App) wireBlobs(ctx context.Context) (blobstore.Store, error) {
	switch a.Cfg.Cache.Driver {
	case "redis":
		rs, err := blobstore.NewRedisStore(ctx, a.Log, a.Metrics, blobstore.RedisConfig{
			Addr:     a.Cfg.Redis.Addr,
			Password: a.Cfg.Redis.Password,
			DB:       a.Cfg.Redis.DB,
			Prefix:   a.Cfg.Redis.Prefix,
			TTL:      a.Cfg.Cache.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis blob cache: %w", err)
		}
		a.closers = append(a.closers, rs.Close)
		return rs, nil
	case "minio":
		ms, err := blobstore.NewMinioStore(ctx, a.Log, a.Metrics, blobstore.MinioConfig{
			Endpoint:  a.Cfg.Minio.Endpoint,
			AccessKey: a.Cfg.Minio.AccessKey,
			SecretKey: a.Cfg.Minio.SecretKey,
			Bucket:    a.Cfg.Minio.Bucket,
			Secure:    a.Cfg.Minio.Secure,
		})
		if err != nil {
			return nil, fmt.Errorf("init minio blob cache: %w", err)
		}
		return ms, nil
	default:
		fs, err := blobstore.NewFileStore(a.Log, a.Metrics, a.Cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("init file blob cache: %w", err)
		}
		return fs, nil
	}
}

// wireGenerator falls back to llm.Unavailable when the client cannot be
// configured; generation then fails per call and cached documents still replay.
func (a *App) wireGenerator() llm.Generator {
	if a.Cfg.OfflineMode {
		return nil
	}
	gen, err := llm.NewOpenAIGenerator(a.Log, a.Metrics, llm.Config{
		APIKey:      a.Cfg.LLM.APIKey,
		BaseURL:     a.Cfg.LLM.BaseURL,
		Model:       a.Cfg.LLM.Model,
		Timeout:     a.Cfg.LLM.Timeout,
		Temperature: a.Cfg.LLM.Temperature,

		RequestsPerMinute: a.Cfg.LLM.RequestsPerMinute,
	})
	if err != nil {
		a.Log.Warn("model client disabled", "error", err)
		return llm.Unavailable(err)
	}
	return gen
}

// EnsureDefaultUser seeds the configured default user when it is missing.
func (a *App) EnsureDefaultUser(ctx context.Context) (string, error) {
	u, created, err := a.Services.Users.EnsureDefaultUser(ctx, services.DefaultUser{
		Name:  a.Cfg.DefaultUser.Name,
		Email: a.Cfg.DefaultUser.Email,
		Grade: a.Cfg.DefaultUser.Grade,
	})
	if err != nil {
		return "", err
	}
	if created {
		a.Log.Info("seeded default user", "user_id", u.ID)
	}
	return u.ID, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.Log.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
	a.Log.Sync()
}
