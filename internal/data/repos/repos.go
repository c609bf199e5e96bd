package repos

import (
	"github.com/mestudy/mestudy-core/internal/data/repos/learning"
	"github.com/mestudy/mestudy-core/internal/data/repos/user"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type UserRepo = user.UserRepo

type StudyPlanRepo = learning.StudyPlanRepo
type LessonPlanRepo = learning.LessonPlanRepo
type LessonPlanTaskRepo = learning.LessonPlanTaskRepo
type TimetableRepo = learning.TimetableRepo
type QuizRepo = learning.QuizRepo
type QuestionRepo = learning.QuestionRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return user.NewUserRepo(db, baseLog)
}

func NewStudyPlanRepo(db *gorm.DB, baseLog *logger.Logger) StudyPlanRepo {
	return learning.NewStudyPlanRepo(db, baseLog)
}
func NewLessonPlanRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanRepo {
	return learning.NewLessonPlanRepo(db, baseLog)
}
func NewLessonPlanTaskRepo(db *gorm.DB, baseLog *logger.Logger) LessonPlanTaskRepo {
	return learning.NewLessonPlanTaskRepo(db, baseLog)
}
func NewTimetableRepo(db *gorm.DB, baseLog *logger.Logger) TimetableRepo {
	return learning.NewTimetableRepo(db, baseLog)
}
func NewQuizRepo(db *gorm.DB, baseLog *logger.Logger) QuizRepo {
	return learning.NewQuizRepo(db, baseLog)
}
func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return learning.NewQuestionRepo(db, baseLog)
}

// Set bundles one instance of every table repo over the same handle.
type Set struct {
	User           UserRepo
	StudyPlan      StudyPlanRepo
	LessonPlan     LessonPlanRepo
	LessonPlanTask LessonPlanTaskRepo
	Timetable      TimetableRepo
	Quiz           QuizRepo
	Question       QuestionRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		User:           NewUserRepo(db, baseLog),
		StudyPlan:      NewStudyPlanRepo(db, baseLog),
		LessonPlan:     NewLessonPlanRepo(db, baseLog),
		LessonPlanTask: NewLessonPlanTaskRepo(db, baseLog),
		Timetable:      NewTimetableRepo(db, baseLog),
		Quiz:           NewQuizRepo(db, baseLog),
		Question:       NewQuestionRepo(db, baseLog),
	}
}
