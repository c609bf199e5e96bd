package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
	Prefix    string
}

// MinioStore keeps blobs as objects in one bucket, created on first use.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	prefix  string
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewMinioStore(ctx context.Context, log *logger.Logger, metrics *observability.Metrics, cfg MinioConfig) (*MinioStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	bucket := strings.TrimSpace(cfg.Bucket)
	if endpoint == "" || bucket == "" {
		return nil, errors.New("blobstore: minio endpoint and bucket required")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinioStore{
		client:  client,
		bucket:  bucket,
		prefix:  cfg.Prefix,
		log:     log.With("store", "MinioStore", "bucket", bucket),
		metrics: metrics,
	}, nil
}

func (s *MinioStore) key(name string) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	return s.prefix + clean, nil
}

func (s *MinioStore) Save(ctx context.Context, name, content string) error {
	k, err := s.key(name)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, k, strings.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		s.metrics.IncBlobOp("save", "error")
		return fmt.Errorf("blobstore: save %s: %w", name, err)
	}
	s.metrics.IncBlobOp("save", "ok")
	return nil
}

func (s *MinioStore) Load(ctx context.Context, name string) (string, bool, error) {
	k, err := s.key(name)
	if err != nil {
		return "", false, err
	}
	obj, err := s.client.GetObject(ctx, s.bucket, k, minio.GetObjectOptions{})
	if err == nil {
		defer obj.Close()
		var b []byte
		b, err = io.ReadAll(obj)
		if err == nil {
			s.metrics.IncBlobOp("load", "hit")
			return string(b), true, nil
		}
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		s.metrics.IncBlobOp("load", "miss")
		return "", false, nil
	}
	s.metrics.IncBlobOp("load", "error")
	return "", false, fmt.Errorf("blobstore: load %s: %w", name, err)
}

func (s *MinioStore) Delete(ctx context.Context, name string) error {
	k, err := s.key(name)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, k, minio.RemoveObjectOptions{}); err != nil {
		s.metrics.IncBlobOp("delete", "error")
		return fmt.Errorf("blobstore: delete %s: %w", name, err)
	}
	s.metrics.IncBlobOp("delete", "ok")
	return nil
}
