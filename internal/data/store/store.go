package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/mestudy/mestudy-core/internal/data/aggregates"
	"github.com/mestudy/mestudy-core/internal/data/db"
	"github.com/mestudy/mestudy-core/internal/data/repos"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/observability"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type Options struct {
	Path        string
	BusyTimeout time.Duration
	LogLevel    gormLogger.LogLevel
	Metrics     *observability.Metrics
	// Clock stamps created_at on new rows. Defaults to UTC wall time.
	Clock func() time.Time
}

// Store owns the single database connection. Every multi-table write goes
// through one serialized transaction runner; reads share the same handle.
type Store struct {
	log  *logger.Logger
	opts Options

	mu    sync.RWMutex
	svc   *db.SQLiteService
	state *connected
}

// connected is everything that only exists while the database is open.
type connected struct {
	db    *gorm.DB
	repos repos.Set
	base  aggregates.BaseDeps

	users       domainagg.UserAggregate
	studyPlans  domainagg.StudyPlanAggregate
	lessonPlans domainagg.LessonPlanAggregate
	quizzes     domainagg.QuizAggregate
}

func New(baseLog *logger.Logger, opts Options) *Store {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Store{log: baseLog.With("component", "Store"), opts: opts}
}

// Initialize opens the database, enforces foreign keys and creates missing
// tables. It is safe to call repeatedly. On failure the store stays
// disconnected and every operation returns a not_connected error.
func (s *Store) Initialize(ctx context.Context) error {
	const op = "Store.Initialize"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return domainagg.Wrap(domainagg.CodeRetryable, op, err)
	}

	svc, err := db.NewSQLiteService(s.log, db.Options{
		Path:        s.opts.Path,
		BusyTimeout: s.opts.BusyTimeout,
		LogLevel:    s.opts.LogLevel,
	})
	if err != nil {
		s.log.Error("store initialize failed; staying disconnected", "path", s.opts.Path, "error", err)
		return domainagg.NewError(domainagg.CodeNotConnected, op, "open database", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		_ = svc.Close()
		s.log.Error("store migration failed; staying disconnected", "path", s.opts.Path, "error", err)
		return domainagg.NewError(domainagg.CodeNotConnected, op, "migrate database", err)
	}

	s.svc = svc
	s.state = s.wire(svc.DB())
	s.log.Info("store initialized", "path", svc.Path())
	return nil
}

func (s *Store) wire(gdb *gorm.DB) *connected {
	set := repos.NewSet(gdb, s.log)
	base := aggregates.BaseDeps{
		DB:       gdb,
		Log:      s.log,
		Runner:   aggregates.NewGormTxRunner(gdb),
		Hooks:    aggregates.NewMetricsHooks(s.opts.Metrics),
		CASGuard: aggregates.NewCASGuard(gdb),
		Clock:    s.opts.Clock,
	}
	return &connected{
		db:    gdb,
		repos: set,
		base:  base,
		users: aggregates.NewUserAggregate(aggregates.UserAggregateDeps{Base: base, Users: set.User}),
		studyPlans: aggregates.NewStudyPlanAggregate(aggregates.StudyPlanAggregateDeps{
			Base:  base,
			Plans: set.StudyPlan,
		}),
		lessonPlans: aggregates.NewLessonPlanAggregate(aggregates.LessonPlanAggregateDeps{
			Base:        base,
			LessonPlans: set.LessonPlan,
			Tasks:       set.LessonPlanTask,
			Timetables:  set.Timetable,
		}),
		quizzes: aggregates.NewQuizAggregate(aggregates.QuizAggregateDeps{
			Base:        base,
			StudyPlans:  set.StudyPlan,
			LessonPlans: set.LessonPlan,
			Quizzes:     set.Quiz,
			Questions:   set.Question,
		}),
	}
}

func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil
}

// Path is the database file location, or "" while disconnected.
func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.svc == nil {
		return ""
	}
	return s.svc.Path()
}

// Close releases the connection. The store can be initialized again afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.svc == nil {
		return nil
	}
	err := s.svc.Close()
	s.svc = nil
	s.state = nil
	return err
}

var errNotConnected = errors.New("store is not connected")

func (s *Store) conn(op string) (*connected, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return nil, domainagg.NewError(domainagg.CodeNotConnected, op, "call Initialize first", errNotConnected)
	}
	return s.state, nil
}

func readErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return aggregates.MapError(op, err)
}

func requireID(op, field, v string) error {
	if strings.TrimSpace(v) == "" {
		return domainagg.Errorf(domainagg.CodeValidation, op, "missing %s", field)
	}
	return nil
}
