package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mestudy/mestudy-core/internal/data/db"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	return Config{
		Log:         LogConfig{Mode: "test"},
		Database:    DatabaseConfig{Path: filepath.Join(dir, db.DefaultFileName)},
		Cache:       CacheConfig{Driver: "file", Dir: filepath.Join(dir, "cache")},
		DefaultUser: DefaultUserConfig{Name: "usertest", Email: "usertest@gmail.com", Grade: "10"},
	}
}

func TestNew_SeedsDefaultUserOnce(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if !a.Store.Connected() {
		t.Fatalf("expected connected store")
	}
	id, err := a.EnsureDefaultUser(context.Background())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	again, err := a.EnsureDefaultUser(context.Background())
	if err != nil || again != id {
		t.Fatalf("expected same user %s, got %s %v", id, again, err)
	}
}

func TestNew_MissingAPIKeySurfacesPerCall(t *testing.T) {
	a, err := New(context.Background(), testConfig(t), logger.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	_, err = a.Services.StudyTips.Tips(context.Background(), "10", "Math", "Fractions")
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestNew_UnopenableStoreStaysDisconnected(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg.Database.Path = filepath.Join(blocker, db.DefaultFileName)
	a, err := New(context.Background(), cfg, logger.Nop())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer a.Close()
	if a.Store.Connected() {
		t.Fatalf("expected disconnected store")
	}
	if _, err := a.EnsureDefaultUser(context.Background()); !domainagg.IsCode(err, domainagg.CodeNotConnected) {
		t.Fatalf("expected not_connected, got %v", err)
	}
}
