package domain

import (
	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/domain/user"
)

type User = user.User

type StudyPlan = learning.StudyPlan
type LessonPlan = learning.LessonPlan
type LessonPlanTask = learning.LessonPlanTask
type Timetable = learning.Timetable
type Quiz = learning.Quiz
type Question = learning.Question
type OptionList = learning.OptionList
type StudyTips = learning.StudyTips

type Status = learning.Status
type QuestionType = learning.QuestionType
type TaskRole = learning.TaskRole

const (
	StatusNotStarted = learning.StatusNotStarted
	StatusInProgress = learning.StatusInProgress
	StatusCompleted  = learning.StatusCompleted

	QuestionMultipleChoice = learning.QuestionMultipleChoice
	QuestionShortAnswer    = learning.QuestionShortAnswer
	QuestionPracticeTask   = learning.QuestionPracticeTask

	TaskRoleLearning = learning.TaskRoleLearning
	TaskRolePractice = learning.TaskRolePractice
)

// Models lists every persisted table in dependency order.
func Models() []any {
	return []any{
		&User{},
		&StudyPlan{},
		&LessonPlan{},
		&Timetable{},
		&LessonPlanTask{},
		&Quiz{},
		&Question{},
	}
}
