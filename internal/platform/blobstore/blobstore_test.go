package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSanitizeName(t *testing.T) {
	got, err := SanitizeName(StudyTipsKey("10", "Math", "Linear Equations"))
	if err != nil {
		t.Fatalf("sanitize: %v", err)
	}
	if got != "studytips-10-math-linear_equations.json" {
		t.Fatalf("unexpected name %q", got)
	}
	if got, _ := SanitizeName("../../etc/passwd"); filepath.Base(got) != got {
		t.Fatalf("path escaped: %q", got)
	}
	if _, err := SanitizeName(" .. "); err == nil {
		t.Fatalf("expected error for empty name")
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	if _, ok, err := s.Load(ctx, "quiz-missing.json"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Save(ctx, "quiz-1.json", `{"a":1}`); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "quiz-1.json", `{"a":2}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Load(ctx, "quiz-1.json")
	if err != nil || !ok || got != `{"a":2}` {
		t.Fatalf("load = %q %v %v", got, ok, err)
	}
	if err := s.Delete(ctx, "quiz-1.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, "quiz-1.json"); err != nil {
		t.Fatalf("delete twice: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "quiz-1.json"); ok {
		t.Fatalf("expected miss after delete")
	}
}

func TestFileStore(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	dir := filepath.Join(t.TempDir(), "blobs")
	s, err := NewFileStore(nil, metrics, dir)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exerciseStore(t, s)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no leftover files, got %d", len(entries))
	}
	if n, err := testutil.GatherAndCount(reg, "mestudy_blob_cache_operations_total"); err != nil || n == 0 {
		t.Fatalf("expected blob metrics, got %d %v", n, err)
	}
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	s, err := NewRedisStore(context.Background(), nil, nil, RedisConfig{Addr: addr, Prefix: "mestudy:test:" + t.Name() + ":"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s)
}

func TestMinioStore(t *testing.T) {
	endpoint := os.Getenv("TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("TEST_MINIO_ENDPOINT not set")
	}
	s, err := NewMinioStore(context.Background(), nil, nil, MinioConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("TEST_MINIO_SECRET_KEY"),
		Bucket:    "mestudy-test",
		Prefix:    "blobstore-test/",
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	exerciseStore(t, s)
}
