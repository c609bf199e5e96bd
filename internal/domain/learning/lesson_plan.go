package learning

import "time"

// LessonPlan is the first-week breakdown of a StudyPlan. Timetable is loaded
// separately and never written through GORM associations.
type LessonPlan struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	StudyPlanID string     `gorm:"not null;index;column:study_plan_id" json:"studyPlanId"`
	StudyPlan   *StudyPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudyPlanID;references:ID" json:"-"`
	Grade       string     `gorm:"not null;column:grade" json:"grade"`
	Subject     string     `gorm:"not null;column:subject" json:"subject"`
	Topic       string     `gorm:"not null;column:topic" json:"topic"`
	Week        string     `gorm:"not null;column:week" json:"week"`
	Goals       string     `gorm:"not null;column:goals" json:"goals"`
	Milestones  string     `gorm:"not null;column:milestones" json:"milestones"`
	Resources   string     `gorm:"not null;column:resources" json:"resources"`
	Status      Status     `gorm:"not null;column:status" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;index;column:created_at" json:"createdAt"`

	Timetable *Timetable `gorm:"-" json:"timetable,omitempty"`
}

func (LessonPlan) TableName() string { return "lesson_plan" }

type Timetable struct {
	ID           string      `gorm:"primaryKey;column:id" json:"id"`
	LessonPlanID string      `gorm:"not null;index;column:lesson_plan_id" json:"lessonPlanId"`
	LessonPlan   *LessonPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonPlanID;references:ID" json:"-"`
	Session      string      `gorm:"not null;column:session" json:"session"`

	LearningTasks []*LessonPlanTask `gorm:"-" json:"learningTasks"`
	PracticeTasks []*LessonPlanTask `gorm:"-" json:"practiceTasks"`
}

func (Timetable) TableName() string { return "timetable" }

type LessonPlanTask struct {
	ID           string      `gorm:"primaryKey;column:id" json:"id"`
	LessonPlanID string      `gorm:"not null;index:idx_lesson_plan_task_plan_role,priority:1;column:lesson_plan_id" json:"lessonPlanId"`
	LessonPlan   *LessonPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonPlanID;references:ID" json:"-"`
	Role         TaskRole    `gorm:"not null;index:idx_lesson_plan_task_plan_role,priority:2;column:role" json:"role"`
	Position     int         `gorm:"not null;column:position" json:"position"`
	Task         string      `gorm:"not null;column:task" json:"task"`
	Duration     string      `gorm:"not null;column:duration" json:"duration"`
}

func (LessonPlanTask) TableName() string { return "lesson_plan_task" }

// Tasks returns learning then practice tasks, each tagged with its role and position.
func (t *Timetable) Tasks() []*LessonPlanTask {
	if t == nil {
		return nil
	}
	out := make([]*LessonPlanTask, 0, len(t.LearningTasks)+len(t.PracticeTasks))
	for i, task := range t.LearningTasks {
		if task == nil {
			continue
		}
		task.Role = TaskRoleLearning
		task.Position = i
		out = append(out, task)
	}
	for i, task := range t.PracticeTasks {
		if task == nil {
			continue
		}
		task.Role = TaskRolePractice
		task.Position = i
		out = append(out, task)
	}
	return out
}
