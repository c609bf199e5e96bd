package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mestudy/mestudy-core/internal/app"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewWithFile(cfg.Log.Mode, logger.FileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if !a.Store.Connected() {
		log.Error("Store not connected", "path", cfg.Database.Path)
		return
	}

	userID, err := a.EnsureDefaultUser(ctx)
	if err != nil {
		log.Error("Failed to seed default user", "error", err)
		return
	}

	overview, err := a.Services.StudyPlans.Overview(ctx, userID)
	if err != nil {
		log.Error("Failed to load study plans", "user_id", userID, "error", err)
		return
	}
	log.Info("Store ready",
		"path", a.Store.Path(),
		"offline", cfg.OfflineMode,
		"cache", cfg.Cache.Driver,
		"user_id", userID,
		"study_plans", len(overview),
	)
	for _, o := range overview {
		log.Info("Study plan",
			"study_plan_id", o.StudyPlan.ID,
			"subject", o.StudyPlan.Subject,
			"topic", o.StudyPlan.Topic,
			"status", o.StudyPlan.Status,
			"score", o.StudyPlan.ScorePercentage,
			"quizzes", len(o.Quizzes),
		)
	}
}
