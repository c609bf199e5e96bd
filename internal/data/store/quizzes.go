package store

import (
	"context"

	types "github.com/mestudy/mestudy-core/internal/domain"
	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
	"github.com/mestudy/mestudy-core/internal/pkg/dbctx"
	"github.com/samber/lo"
)

func withQuestions(quiz *types.Quiz, questions []*types.Question) *types.Quiz {
	if quiz != nil && questions != nil {
		quiz.Questions = questions
	}
	return quiz
}

// InsertQuizAndQuestions writes the quiz and its questions in one transaction
// without touching any status.
func (s *Store) InsertQuizAndQuestions(ctx context.Context, quiz *types.Quiz, questions []*types.Question) (string, error) {
	c, err := s.conn("Store.InsertQuizAndQuestions")
	if err != nil {
		return "", err
	}
	return c.quizzes.Create(ctx, withQuestions(quiz, questions))
}

// StartQuiz inserts the quiz like InsertQuizAndQuestions and moves the quiz,
// its lesson plan and its study plan from NotStarted to InProgress.
func (s *Store) StartQuiz(ctx context.Context, quiz *types.Quiz, questions []*types.Question) (string, error) {
	c, err := s.conn("Store.StartQuiz")
	if err != nil {
		return "", err
	}
	res, err := c.quizzes.Start(ctx, withQuestions(quiz, questions))
	if err != nil {
		return "", err
	}
	return res.QuizID, nil
}

// GetQuizzes lists the study plan's quizzes oldest first, each with its questions.
func (s *Store) GetQuizzes(ctx context.Context, studyPlanID string) ([]*types.Quiz, error) {
	const op = "Store.GetQuizzes"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.New(ctx)
	quizzes, err := c.repos.Quiz.ListByStudyPlanID(dbc, studyPlanID)
	if err != nil {
		return nil, readErr(op, err)
	}
	if len(quizzes) == 0 {
		return quizzes, nil
	}
	byQuiz, err := c.repos.Question.ListByQuizIDs(dbc, lo.Map(quizzes, func(q *types.Quiz, _ int) string { return q.ID }))
	if err != nil {
		return nil, readErr(op, err)
	}
	for _, q := range quizzes {
		q.Questions = byQuiz[q.ID]
		if q.Questions == nil {
			q.Questions = []*types.Question{}
		}
	}
	return quizzes, nil
}

// GetQuizQuestions returns the quiz's questions in position order. Rows with
// an unrecognized question type are left out.
func (s *Store) GetQuizQuestions(ctx context.Context, quizID string) ([]*types.Question, error) {
	const op = "Store.GetQuizQuestions"
	c, err := s.conn(op)
	if err != nil {
		return nil, err
	}
	byQuiz, err := c.repos.Question.ListByQuizIDs(dbctx.New(ctx), []string{quizID})
	if err != nil {
		return nil, readErr(op, err)
	}
	out := byQuiz[quizID]
	if out == nil {
		out = []*types.Question{}
	}
	return out, nil
}

// UpdateAnswer reports whether a question row with id was changed.
func (s *Store) UpdateAnswer(ctx context.Context, questionID, answer string) (bool, error) {
	c, err := s.conn("Store.UpdateAnswer")
	if err != nil {
		return false, err
	}
	return c.quizzes.RecordAnswer(ctx, questionID, answer)
}

// SubmitQuiz grades answers (question id to answer text) and completes the
// quiz, lesson plan and study plan. Result.Correct is the correct count.
// Nothing is written unless every step succeeds.
func (s *Store) SubmitQuiz(ctx context.Context, studyPlanID, quizID string, answers map[string]string) (domainagg.SubmitQuizResult, error) {
	c, err := s.conn("Store.SubmitQuiz")
	if err != nil {
		return domainagg.SubmitQuizResult{}, err
	}
	return c.quizzes.Submit(ctx, domainagg.SubmitQuizInput{
		StudyPlanID: studyPlanID,
		QuizID:      quizID,
		Answers:     answers,
	})
}
