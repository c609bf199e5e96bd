package codec

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/samber/lo"
)

const EntityLessonPlan = "lesson_plan"

type lessonPlanWire struct {
	ID                    string         `json:"id"`
	StudyPlanID           text           `json:"studyPlanId"`
	LessonPlanStudyPlanID text           `json:"lessonPlanStudyPlanId"`
	Grade                 text           `json:"grade"`
	Subject               text           `json:"subject"`
	Topic                 text           `json:"topic"`
	Week                  text           `json:"week"`
	Goals                 text           `json:"goals"`
	Milestones            text           `json:"milestones"`
	Resources             text           `json:"resources"`
	Timetable             *timetableWire `json:"timetable"`
}

type timetableWire struct {
	Session            text       `json:"session"`
	LearningTasks      []taskWire `json:"learning_tasks"`
	PracticeTasks      []taskWire `json:"practice_tasks"`
	LearningTasksCamel []taskWire `json:"learningTasks"`
	PracticeTasksCamel []taskWire `json:"practiceTasks"`
}

type taskWire struct {
	Task     text `json:"task"`
	Duration text `json:"duration"`
}

// DecodeLessonPlan parses generated lesson plan JSON. The study plan id is
// taken as emitted; fresh ids are assigned to the lesson plan, its timetable
// and every task.
func DecodeLessonPlan(raw string) (*learning.LessonPlan, error) {
	body := Clean(raw)
	var w lessonPlanWire
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, decodeErr(EntityLessonPlan, "", raw, err)
	}
	spID := first(w.StudyPlanID, w.LessonPlanStudyPlanID).String()
	if spID == "" {
		return nil, decodeErr(EntityLessonPlan, "studyPlanId", raw, errors.New("missing study plan id"))
	}
	if w.Timetable == nil {
		return nil, decodeErr(EntityLessonPlan, "timetable", raw, errors.New("missing timetable"))
	}

	id := w.ID
	if id == "" {
		id = uuid.NewString()
	}
	lp := &learning.LessonPlan{
		ID:          id,
		StudyPlanID: spID,
		Grade:       w.Grade.String(),
		Subject:     w.Subject.String(),
		Topic:       w.Topic.String(),
		Week:        w.Week.String(),
		Goals:       w.Goals.String(),
		Milestones:  w.Milestones.String(),
		Resources:   w.Resources.String(),
		Status:      learning.StatusNotStarted,
	}
	tt := w.Timetable
	lp.Timetable = &learning.Timetable{
		ID:            uuid.NewString(),
		LessonPlanID:  lp.ID,
		Session:       tt.Session.String(),
		LearningTasks: tasks(lp.ID, learning.TaskRoleLearning, lo.Ternary(tt.LearningTasks != nil, tt.LearningTasks, tt.LearningTasksCamel)),
		PracticeTasks: tasks(lp.ID, learning.TaskRolePractice, lo.Ternary(tt.PracticeTasks != nil, tt.PracticeTasks, tt.PracticeTasksCamel)),
	}
	return lp, nil
}

func tasks(lessonPlanID string, role learning.TaskRole, in []taskWire) []*learning.LessonPlanTask {
	kept := lo.Filter(in, func(t taskWire, _ int) bool { return t.Task.String() != "" })
	return lo.Map(kept, func(t taskWire, i int) *learning.LessonPlanTask {
		return &learning.LessonPlanTask{
			ID:           uuid.NewString(),
			LessonPlanID: lessonPlanID,
			Role:         role,
			Position:     i,
			Task:         t.Task.String(),
			Duration:     t.Duration.String(),
		}
	})
}

// EncodeLessonPlan writes the form DecodeLessonPlan reads, for offline replay.
func EncodeLessonPlan(lp *learning.LessonPlan) (string, error) {
	if lp == nil {
		return "", errors.New("encode lesson plan: nil")
	}
	out := map[string]any{
		"id":                    lp.ID,
		"lessonPlanStudyPlanId": lp.StudyPlanID,
		"grade":                 lp.Grade,
		"subject":               lp.Subject,
		"topic":                 lp.Topic,
		"week":                  lp.Week,
		"goals":                 lp.Goals,
		"milestones":            lp.Milestones,
		"resources":             lp.Resources,
	}
	tt := lp.Timetable
	if tt == nil {
		tt = &learning.Timetable{}
	}
	encodeTasks := func(in []*learning.LessonPlanTask) []map[string]string {
		return lo.FilterMap(in, func(t *learning.LessonPlanTask, _ int) (map[string]string, bool) {
			if t == nil {
				return nil, false
			}
			return map[string]string{"task": t.Task, "duration": t.Duration}, true
		})
	}
	out["timetable"] = map[string]any{
		"session":        tt.Session,
		"learning_tasks": encodeTasks(tt.LearningTasks),
		"practice_tasks": encodeTasks(tt.PracticeTasks),
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
