package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mestudy/mestudy-core/internal/domain/learning"
	"github.com/samber/lo"
)

const EntityQuiz = "quiz"

type quizWire struct {
	ID                    string         `json:"id"`
	QuizTitle             text           `json:"quiz_title"`
	QuizTitleCamel        text           `json:"quizTitle"`
	Title                 text           `json:"title"`
	StudyPlanID           text           `json:"studyPlanId"`
	LessonPlanStudyPlanID text           `json:"lessonPlanStudyPlanId"`
	Questions             []questionWire `json:"questions"`
}

type questionWire struct {
	ID                 string `json:"id"`
	Type               text   `json:"type"`
	QuestionType       text   `json:"questionType"`
	Question           text   `json:"question"`
	QuestionText       text   `json:"questionText"`
	Options            list   `json:"options"`
	CorrectAnswer      text   `json:"correct_answer"`
	CorrectAnswerCamel text   `json:"correctAnswer"`
	Task               text   `json:"task"`
	QuestionTask       text   `json:"questionTask"`
}

// DecodeQuiz parses generated or cached quiz JSON. Questions keep their order.
// Absent options stay nil so short-answer and practice questions are told
// apart from a multiple-choice question with an empty list.
func DecodeQuiz(raw string) (*learning.Quiz, error) {
	body := Clean(raw)
	var w quizWire
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, decodeErr(EntityQuiz, "", raw, err)
	}
	spID := first(w.StudyPlanID, w.LessonPlanStudyPlanID).String()
	if spID == "" {
		return nil, decodeErr(EntityQuiz, "studyPlanId", raw, errors.New("missing study plan id"))
	}
	if len(w.Questions) == 0 {
		return nil, decodeErr(EntityQuiz, "questions", raw, errors.New("quiz has no questions"))
	}

	quiz := &learning.Quiz{
		ID:          lo.Ternary(w.ID != "", w.ID, uuid.NewString()),
		StudyPlanID: spID,
		Title:       first(w.QuizTitle, w.QuizTitleCamel, w.Title).String(),
		Status:      learning.StatusNotStarted,
	}
	if quiz.Title == "" {
		quiz.Title = "Untitled Quiz"
	}
	for i, qw := range w.Questions {
		qt, err := parseType(first(qw.Type, qw.QuestionType).String())
		if err != nil {
			return nil, decodeErr(EntityQuiz, fmt.Sprintf("questions[%d].type", i), raw, err)
		}
		q := &learning.Question{
			ID:            lo.Ternary(qw.ID != "", qw.ID, uuid.NewString()),
			QuizID:        quiz.ID,
			QuestionType:  qt,
			Position:      i,
			QuestionText:  first(qw.Question, qw.QuestionText).Ptr(),
			CorrectAnswer: first(qw.CorrectAnswer, qw.CorrectAnswerCamel).Ptr(),
			Task:          first(qw.Task, qw.QuestionTask).Ptr(),
		}
		if qw.Options.Set {
			q.Options = learning.OptionList(qw.Options.Values)
		}
		quiz.Questions = append(quiz.Questions, q)
	}
	return quiz, nil
}

// parseType accepts spacing and casing variants such as "Multiple Choice".
func parseType(raw string) (learning.QuestionType, error) {
	norm := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(raw)))
	return learning.ParseQuestionType(norm)
}

type questionOut struct {
	ID            string   `json:"id"`
	Type          string   `json:"type"`
	Question      *string  `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer *string  `json:"correct_answer,omitempty"`
	Task          *string  `json:"task,omitempty"`
}

type quizOut struct {
	ID          string        `json:"id"`
	QuizTitle   string        `json:"quiz_title"`
	StudyPlanID string        `json:"studyPlanId"`
	Questions   []questionOut `json:"questions"`
}

// EncodeQuiz writes the form DecodeQuiz reads. Answers and grades are not included.
func EncodeQuiz(quiz *learning.Quiz) (string, error) {
	if quiz == nil {
		return "", errors.New("encode quiz: nil")
	}
	out := quizOut{
		ID:          quiz.ID,
		QuizTitle:   quiz.Title,
		StudyPlanID: quiz.StudyPlanID,
		Questions: lo.FilterMap(quiz.Questions, func(q *learning.Question, _ int) (questionOut, bool) {
			if q == nil {
				return questionOut{}, false
			}
			return questionOut{
				ID:            q.ID,
				Type:          string(q.QuestionType),
				Question:      q.QuestionText,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Task:          q.Task,
			}, true
		}),
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
