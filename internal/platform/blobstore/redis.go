package blobstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL of zero keeps blobs until deleted.
	TTL time.Duration
}

type RedisStore struct {
	rdb     *goredis.Client
	prefix  string
	ttl     time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewRedisStore(ctx context.Context, log *logger.Logger, metrics *observability.Metrics, cfg RedisConfig) (*RedisStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, errors.New("blobstore: missing redis addr")
	}
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "mestudy:blob:"
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{
		rdb:     rdb,
		prefix:  prefix,
		ttl:     cfg.TTL,
		log:     log.With("store", "RedisStore"),
		metrics: metrics,
	}, nil
}

func (s *RedisStore) key(name string) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	return s.prefix + clean, nil
}

func (s *RedisStore) Save(ctx context.Context, name, content string) error {
	k, err := s.key(name)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, k, content, s.ttl).Err(); err != nil {
		s.metrics.IncBlobOp("save", "error")
		return fmt.Errorf("blobstore: save %s: %w", name, err)
	}
	s.metrics.IncBlobOp("save", "ok")
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (string, bool, error) {
	k, err := s.key(name)
	if err != nil {
		return "", false, err
	}
	v, err := s.rdb.Get(ctx, k).Result()
	if errors.Is(err, goredis.Nil) {
		s.metrics.IncBlobOp("load", "miss")
		return "", false, nil
	}
	if err != nil {
		s.metrics.IncBlobOp("load", "error")
		return "", false, fmt.Errorf("blobstore: load %s: %w", name, err)
	}
	s.metrics.IncBlobOp("load", "hit")
	return v, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	k, err := s.key(name)
	if err != nil {
		return err
	}
	if err := s.rdb.Del(ctx, k).Err(); err != nil {
		s.metrics.IncBlobOp("delete", "error")
		return fmt.Errorf("blobstore: delete %s: %w", name, err)
	}
	s.metrics.IncBlobOp("delete", "ok")
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
