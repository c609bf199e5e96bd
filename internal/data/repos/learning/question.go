package learning

import (
	types "github.com/mestudy/mestudy-core/internal/domain"
	domlearning "github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/mestudy/mestudy-core/internal/pkg/logger"
	"gorm.io/gorm"
)

type QuestionRepo interface {
	Create(dbc dbctx.Context, rows []*types.Question) ([]*types.Question, error)
	// GetByQuizAndIDs returns the requested questions that belong to quizID, keyed
	// by id. Rows with an unknown question type are left out like in ListByQuizIDs.
	GetByQuizAndIDs(dbc dbctx.Context, quizID string, ids []string) (map[string]*types.Question, error)
	// ListByQuizIDs groups questions per quiz in position order. Rows with an
	// unknown question type are skipped and logged.
	ListByQuizIDs(dbc dbctx.Context, quizIDs []string) (map[string][]*types.Question, error)
	UpdateAnswer(dbc dbctx.Context, id, answer string) (bool, error)
	UpdateGrade(dbc dbctx.Context, id, answer string, isCorrect bool) (int64, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(dbc dbctx.Context, rows []*types.Question) ([]*types.Question, error) {
	if len(rows) == 0 {
		return []*types.Question{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionRepo) GetByQuizAndIDs(dbc dbctx.Context, quizID string, ids []string) (map[string]*types.Question, error) {
	out := map[string]*types.Question{}
	if len(ids) == 0 {
		return out, nil
	}
	var rows []*types.Question
	if err := dbc.DB(r.db).
		Where("quiz_id = ? AND id IN ?", quizID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if !r.knownType(row) {
			continue
		}
		out[row.ID] = row
	}
	return out, nil
}

func (r *questionRepo) ListByQuizIDs(dbc dbctx.Context, quizIDs []string) (map[string][]*types.Question, error) {
	out := map[string][]*types.Question{}
	if len(quizIDs) == 0 {
		return out, nil
	}
	var rows []*types.Question
	if err := dbc.DB(r.db).
		Where("quiz_id IN ?", quizIDs).
		Order("position ASC").
		Order("rowid ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		if !r.knownType(row) {
			continue
		}
		out[row.QuizID] = append(out[row.QuizID], row)
	}
	return out, nil
}

// knownType canonicalizes row.QuestionType, logging and rejecting unknown values.
func (r *questionRepo) knownType(row *types.Question) bool {
	qt, err := domlearning.ParseQuestionType(string(row.QuestionType))
	if err != nil {
		r.log.Warn("skipping question with unknown type", "question_id", row.ID, "quiz_id", row.QuizID, "question_type", row.QuestionType)
		return false
	}
	row.QuestionType = qt
	return true
}

// UpdateAnswer reports false when no question has that id.
func (r *questionRepo) UpdateAnswer(dbc dbctx.Context, id, answer string) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Question{}).
		Where("id = ?", id).
		Update("user_answer", answer)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *questionRepo) UpdateGrade(dbc dbctx.Context, id, answer string, isCorrect bool) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Question{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"user_answer": answer,
			"is_correct":  isCorrect,
		})
	return res.RowsAffected, res.Error
}
