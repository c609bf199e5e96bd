package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

type FileStore struct {
	dir     string
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewFileStore(log *logger.Logger, metrics *observability.Metrics, dir string) (*FileStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if dir == "" {
		return nil, errors.New("blobstore: dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create dir: %w", err)
	}
	return &FileStore{dir: dir, log: log.With("store", "FileStore"), metrics: metrics}, nil
}

func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) (string, error) {
	clean, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, clean), nil
}

// Save writes through a temp file and rename so readers never see a torn blob.
func (s *FileStore) Save(ctx context.Context, name, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".blob-*")
	if err != nil {
		s.metrics.IncBlobOp("save", "error")
		return fmt.Errorf("blobstore: save %s: %w", name, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		s.metrics.IncBlobOp("save", "error")
		return fmt.Errorf("blobstore: save %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		s.metrics.IncBlobOp("save", "error")
		return fmt.Errorf("blobstore: save %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		s.metrics.IncBlobOp("save", "error")
		return fmt.Errorf("blobstore: save %s: %w", name, err)
	}
	s.metrics.IncBlobOp("save", "ok")
	s.log.Debug("blob saved", "name", name, "bytes", len(content))
	return nil
}

func (s *FileStore) Load(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	p, err := s.path(name)
	if err != nil {
		return "", false, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		s.metrics.IncBlobOp("load", "miss")
		return "", false, nil
	}
	if err != nil {
		s.metrics.IncBlobOp("load", "error")
		return "", false, fmt.Errorf("blobstore: load %s: %w", name, err)
	}
	s.metrics.IncBlobOp("load", "hit")
	return string(b), true, nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.metrics.IncBlobOp("delete", "error")
		return fmt.Errorf("blobstore: delete %s: %w", name, err)
	}
	s.metrics.IncBlobOp("delete", "ok")
	return nil
}
