package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/mestudy/mestudy-core/internal/data/db"
	"github.com/mestudy/mestudy-core/internal/data/repos/testutil"
	"github.com/mestudy/mestudy-core/internal/data/store"
	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/modules/learning/prompts"
	"github.com/mestudy/mestudy-core/internal/platform/blobstore"
	"github.com/mestudy/mestudy-core/internal/platform/llm"
	gormLogger "gorm.io/gorm/logger"
)

var studyPlanIDRE = regexp.MustCompile(`"lessonPlanStudyPlanId": "([^"]+)"`)

type fakeGenerator struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
	tips  string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	if f.err != nil {
		return "", f.err
	}
	spID := ""
	if m := studyPlanIDRE.FindStringSubmatch(prompt); len(m) == 2 {
		spID = m[1]
	}
	switch {
	case strings.Contains(prompt, "first-week lesson plan"):
		f.calls["lesson_plan"]++
		return fmt.Sprintf("```json\n{\"lessonPlanStudyPlanId\":%q,\"grade\":\"10\",\"subject\":\"Geography\",\"topic\":\"Capitals\","+
			"\"week\":\"Week 1\",\"goals\":\"Learn capitals\",\"milestones\":\"Quiz\",\"resources\":\"Atlas\","+
			"\"timetable\":{\"session\":\"Evenings\",\"learning_tasks\":[{\"task\":\"Read\",\"duration\":\"30 minutes\"},{\"task\":\"Watch\",\"duration\":\"20 minutes\"}],"+
			"\"practice_tasks\":[{\"task\":\"Drill\",\"duration\":\"15 minutes\"}]}}\n```", spID), nil
	case strings.Contains(prompt, "Create a quiz"):
		f.calls["quiz"]++
		return fmt.Sprintf(`{"quiz_title":"Capitals","lessonPlanStudyPlanId":%q,"questions":[`+
			`{"type":"multiple_choice","question":"Capital of France?","options":["Paris","Lyon"],"correct_answer":"paris"},`+
			`{"type":"short_answer","question":"Capital of Italy?","correct_answer":"rome"},`+
			`{"type":"practice_task","task":"Draw a map"}]}`, spID), nil
	case strings.Contains(prompt, "study tips"):
		f.calls["study_tips"]++
		if f.tips != "" {
			return f.tips, nil
		}
		return `{"tips":["Sleep well","Review daily","Sleep well"]}`, nil
	}
	return "", errors.New("unexpected prompt")
}

func (f *fakeGenerator) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

type harness struct {
	store *store.Store
	gen   *fakeGenerator
	blobs *blobstore.FileStore
	dir   string
	user  *types.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	s := store.New(testutil.Logger(t), store.Options{
		Path:     filepath.Join(dir, db.DefaultFileName),
		LogLevel: gormLogger.Silent,
	})
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	blobs, err := blobstore.NewFileStore(testutil.Logger(t), nil, filepath.Join(dir, "blobs"))
	if err != nil {
		t.Fatalf("blobstore: %v", err)
	}
	h := &harness{store: s, gen: &fakeGenerator{}, blobs: blobs, dir: dir}
	u, _, err := NewUserService(testutil.Logger(t), s).EnsureDefaultUser(context.Background(), DefaultUser{
		Name: "usertest", Email: "usertest@gmail.com", Grade: "10",
	})
	if err != nil {
		t.Fatalf("default user: %v", err)
	}
	h.user = u
	return h
}

func (h *harness) cfg(offline bool) GenerationConfig {
	return GenerationConfig{Generator: h.gen, Blobs: h.blobs, Offline: offline}
}

func (h *harness) plan(t *testing.T) *PlanBundle {
	t.Helper()
	svc := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(false))
	b, err := svc.CreateStudyPlan(context.Background(), PlanRequest{
		UserID: h.user.ID, Grade: "10", Subject: "Geography", Topic: "Capitals",
		DurationMonths: 2, FrequencyPerWeek: 3,
	})
	if err != nil {
		t.Fatalf("create study plan: %v", err)
	}
	return b
}

func TestEnsureDefaultUser_Idempotent(t *testing.T) {
	h := newHarness(t)
	svc := NewUserService(testutil.Logger(t), h.store)
	u, created, err := svc.EnsureDefaultUser(context.Background(), DefaultUser{Name: "usertest", Email: "usertest@gmail.com", Grade: "10"})
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if created || u.ID != h.user.ID {
		t.Fatalf("expected existing user %s, got %s created=%v", h.user.ID, u.ID, created)
	}
	if _, _, err := svc.EnsureDefaultUser(context.Background(), DefaultUser{}); !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestCreateStudyPlan_GeneratesAndCachesLessonPlan(t *testing.T) {
	h := newHarness(t)
	b := h.plan(t)

	if b.StudyPlan.Status != types.StatusNotStarted {
		t.Fatalf("expected NotStarted, got %s", b.StudyPlan.Status)
	}
	lp := b.LessonPlan
	if lp == nil || lp.Timetable == nil {
		t.Fatalf("expected lesson plan with timetable")
	}
	if len(lp.Timetable.LearningTasks) != 2 || len(lp.Timetable.PracticeTasks) != 1 || lp.Timetable.Session != "Evenings" {
		t.Fatalf("unexpected timetable %+v", lp.Timetable)
	}
	raw, ok, err := h.blobs.Load(context.Background(), blobstore.LessonPlanKey(b.StudyPlan.ID))
	if err != nil || !ok {
		t.Fatalf("expected cached lesson plan, ok=%v err=%v", ok, err)
	}
	if !strings.Contains(raw, lp.ID) {
		t.Fatalf("cached lesson plan should keep id %s", lp.ID)
	}

	// Offline replay of an already stored lesson plan does not insert again.
	offline := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(true))
	again, err := offline.GenerateLessonPlan(context.Background(), b.StudyPlan.ID)
	if err != nil {
		t.Fatalf("offline replay: %v", err)
	}
	if again.ID != lp.ID {
		t.Fatalf("expected replayed lesson plan %s, got %s", lp.ID, again.ID)
	}
	if h.gen.count("lesson_plan") != 1 {
		t.Fatalf("expected one generation, got %d", h.gen.count("lesson_plan"))
	}
}

func TestCreateStudyPlan_Validation(t *testing.T) {
	h := newHarness(t)
	svc := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(false))
	_, err := svc.CreateStudyPlan(context.Background(), PlanRequest{UserID: h.user.ID, Subject: "Math"})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
	offline := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(true))
	_, err = offline.CreateStudyPlan(context.Background(), PlanRequest{UserID: h.user.ID, Subject: "Math", Topic: "Algebra"})
	if !domainagg.IsCode(err, domainagg.CodeValidation) {
		t.Fatalf("expected validation offline, got %v", err)
	}
}

func TestGenerateLessonPlan_OfflineMiss(t *testing.T) {
	h := newHarness(t)
	svc := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(true))
	_, err := svc.GenerateLessonPlan(context.Background(), "missing")
	if !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
	if h.gen.count("lesson_plan") != 0 {
		t.Fatalf("offline mode must not call the generator")
	}
}

func TestGenerateLessonPlan_ModelFailure(t *testing.T) {
	h := newHarness(t)
	b := h.plan(t)
	h.gen.err = &llm.Error{Kind: llm.KindHTTPError, StatusCode: 503, Err: errors.New("status code: 503")}
	svc := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(false))
	_, err := svc.GenerateLessonPlan(context.Background(), b.StudyPlan.ID)
	if !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("expected retryable, got %v", err)
	}
	var le *llm.Error
	if !errors.As(err, &le) || le.StatusCode != 503 {
		t.Fatalf("expected llm error to stay reachable, got %v", err)
	}

	h.gen.err = &llm.Error{Kind: llm.KindAPIKeyMissing}
	_, err = svc.GenerateLessonPlan(context.Background(), b.StudyPlan.ID)
	if !domainagg.IsCode(err, domainagg.CodeInternal) {
		t.Fatalf("expected internal, got %v", err)
	}
}

func TestQuizFlow_StartSubmit(t *testing.T) {
	h := newHarness(t)
	b := h.plan(t)
	ctx := context.Background()
	qs := NewQuizService(testutil.Logger(t), h.store, h.cfg(false))

	quiz, err := qs.CreateLessonQuiz(ctx, b.StudyPlan.ID)
	if err != nil {
		t.Fatalf("create quiz: %v", err)
	}
	if len(quiz.Questions) != 3 || quiz.Status != types.StatusInProgress {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	sp, err := h.store.GetStudyPlan(ctx, b.StudyPlan.ID)
	if err != nil || sp.Status != types.StatusInProgress {
		t.Fatalf("expected study plan InProgress, got %+v %v", sp, err)
	}
	if _, ok, _ := h.blobs.Load(ctx, blobstore.QuizKey(b.StudyPlan.ID)); !ok {
		t.Fatalf("expected cached quiz")
	}

	answers := map[string]string{}
	for _, q := range quiz.Questions {
		switch q.QuestionType {
		case types.QuestionMultipleChoice:
			answers[q.ID] = "I think it's Paris, France"
		case types.QuestionShortAnswer:
			answers[q.ID] = "Milan"
		}
	}
	res, err := qs.Submit(ctx, b.StudyPlan.ID, quiz.ID, answers)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Correct != 1 || res.Total != 2 || res.ScorePercentage != 50 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.StudyPlan.Status != types.StatusCompleted {
		t.Fatalf("expected Completed, got %s", res.StudyPlan.Status)
	}

	_, err = qs.Submit(ctx, b.StudyPlan.ID, quiz.ID, answers)
	if !domainagg.IsCode(err, domainagg.CodeAlreadyCompleted) {
		t.Fatalf("expected already_completed, got %v", err)
	}
}

func TestCreateLessonQuiz_NoLessonPlan(t *testing.T) {
	h := newHarness(t)
	spID, err := h.store.InsertStudyPlan(context.Background(), &types.StudyPlan{UserID: h.user.ID, Subject: "Math", Topic: "Algebra"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	qs := NewQuizService(testutil.Logger(t), h.store, h.cfg(false))
	if _, err := qs.CreateLessonQuiz(context.Background(), spID); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestCreateLessonQuiz_OfflineReplayOnce(t *testing.T) {
	h := newHarness(t)
	b := h.plan(t)
	ctx := context.Background()
	online, err := NewQuizService(testutil.Logger(t), h.store, h.cfg(false)).CreateLessonQuiz(ctx, b.StudyPlan.ID)
	if err != nil {
		t.Fatalf("online: %v", err)
	}
	offline := NewQuizService(testutil.Logger(t), h.store, h.cfg(true))
	replayed, err := offline.CreateLessonQuiz(ctx, b.StudyPlan.ID)
	if err != nil {
		t.Fatalf("offline: %v", err)
	}
	if replayed.ID != online.ID {
		t.Fatalf("expected replayed quiz %s, got %s", online.ID, replayed.ID)
	}
	quizzes, err := offline.ListQuizzes(ctx, b.StudyPlan.ID)
	if err != nil || len(quizzes) != 1 {
		t.Fatalf("expected one stored quiz, got %d %v", len(quizzes), err)
	}
	if h.gen.count("quiz") != 1 {
		t.Fatalf("expected one quiz generation, got %d", h.gen.count("quiz"))
	}
}

func TestOverview(t *testing.T) {
	h := newHarness(t)
	first := h.plan(t)
	second := h.plan(t)
	if _, err := NewQuizService(testutil.Logger(t), h.store, h.cfg(false)).CreateLessonQuiz(context.Background(), second.StudyPlan.ID); err != nil {
		t.Fatalf("quiz: %v", err)
	}
	svc := NewStudyPlanService(testutil.Logger(t), h.store, h.cfg(false))
	out, err := svc.Overview(context.Background(), h.user.ID)
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 plans, got %d", len(out))
	}
	byID := map[string]PlanOverview{}
	for _, o := range out {
		byID[o.StudyPlan.ID] = o
	}
	if len(byID[first.StudyPlan.ID].Quizzes) != 0 || len(byID[second.StudyPlan.ID].Quizzes) != 1 {
		t.Fatalf("unexpected quiz counts")
	}

	ok, err := svc.DeleteStudyPlan(context.Background(), second.StudyPlan.ID)
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, hit, _ := h.blobs.Load(context.Background(), blobstore.QuizKey(second.StudyPlan.ID)); hit {
		t.Fatalf("expected cached quiz removed with the plan")
	}
}

func TestStudyTips_CacheAndOffline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	svc := NewStudyTipsService(testutil.Logger(t), h.cfg(false))

	tips, err := svc.Tips(ctx, "10", "Math", "Fractions")
	if err != nil {
		t.Fatalf("tips: %v", err)
	}
	if len(tips.Tips) != 2 || tips.Subject != "Math" {
		t.Fatalf("unexpected tips %+v", tips)
	}
	if _, err := svc.Tips(ctx, "10", "Math", "Fractions"); err != nil {
		t.Fatalf("cached tips: %v", err)
	}
	if h.gen.count("study_tips") != 1 {
		t.Fatalf("expected one generation, got %d", h.gen.count("study_tips"))
	}

	offline := NewStudyTipsService(testutil.Logger(t), h.cfg(true))
	if _, err := offline.Tips(ctx, "10", "Math", "Fractions"); err != nil {
		t.Fatalf("offline cached: %v", err)
	}
	if _, err := offline.Tips(ctx, "11", "Physics", "Optics"); !domainagg.IsCode(err, domainagg.CodeNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestStudyTips_DecodeFailure(t *testing.T) {
	h := newHarness(t)
	h.gen.tips = `{"tips":[]}`
	svc := NewStudyTipsService(testutil.Logger(t), h.cfg(false))
	if _, err := svc.Tips(context.Background(), "10", "Math", "Fractions"); !domainagg.IsCode(err, domainagg.CodeDecode) {
		t.Fatalf("expected decode, got %v", err)
	}
}

type gatedGenerator struct {
	entered chan struct{}
	release chan struct{}

	mu      sync.Mutex
	ctxErrs []error
}

func (g *gatedGenerator) Generate(ctx context.Context, _ string) (string, error) {
	g.entered <- struct{}{}
	<-g.release
	g.mu.Lock()
	g.ctxErrs = append(g.ctxErrs, ctx.Err())
	g.mu.Unlock()
	return `{"tips":["Sleep well"]}`, nil
}

func TestGenerate_CallerCancelDoesNotAbortSharedRequest(t *testing.T) {
	gate := &gatedGenerator{entered: make(chan struct{}, 2), release: make(chan struct{})}
	g := newGeneration(testutil.Logger(t), GenerationConfig{Generator: gate})
	in := prompts.Input{Grade: "10", Subject: "Math", Topic: "Fractions", TipCount: 5}

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := g.generate(ctx, "Study.Tips", prompts.PromptStudyTips, in)
		first <- err
	}()
	<-gate.entered

	second := make(chan error, 1)
	go func() {
		raw, err := g.generate(context.Background(), "Study.Tips", prompts.PromptStudyTips, in)
		if err == nil && raw == "" {
			err = errors.New("empty result")
		}
		second <- err
	}()

	cancel()
	if err := <-first; !domainagg.IsCode(err, domainagg.CodeRetryable) {
		t.Fatalf("cancelled caller: expected retryable, got %q (%v)", domainagg.CodeOf(err), err)
	}
	close(gate.release)
	if err := <-second; err != nil {
		t.Fatalf("waiting caller: %v", err)
	}

	gate.mu.Lock()
	defer gate.mu.Unlock()
	for _, err := range gate.ctxErrs {
		if err != nil {
			t.Fatalf("model request saw a cancelled context: %v", err)
		}
	}
}
