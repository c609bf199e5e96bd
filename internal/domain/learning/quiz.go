package learning

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Quiz struct {
	ID          string     `gorm:"primaryKey;column:id" json:"id"`
	StudyPlanID string     `gorm:"not null;index;column:study_plan_id" json:"studyPlanId"`
	StudyPlan   *StudyPlan `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudyPlanID;references:ID" json:"-"`
	Title       string     `gorm:"not null;column:quiz_title" json:"quizTitle"`
	Status      Status     `gorm:"not null;column:status" json:"status"`
	CreatedAt   time.Time  `gorm:"not null;index;column:created_at" json:"createdAt"`

	Questions []*Question `gorm:"-" json:"questions"`
}

func (Quiz) TableName() string { return "quiz" }

type Question struct {
	ID            string       `gorm:"primaryKey;column:id" json:"id"`
	QuizID        string       `gorm:"not null;index;column:quiz_id" json:"quizId"`
	Quiz          *Quiz        `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	QuestionType  QuestionType `gorm:"not null;column:question_type" json:"questionType"`
	Position      int          `gorm:"not null;column:position" json:"position"`
	QuestionText  *string      `gorm:"column:question_text" json:"questionText,omitempty"`
	Options       OptionList   `gorm:"column:options" json:"options,omitempty"`
	CorrectAnswer *string      `gorm:"column:correct_answer" json:"correctAnswer,omitempty"`
	Task          *string      `gorm:"column:task" json:"questionTask,omitempty"`
	UserAnswer    string       `gorm:"not null;column:user_answer" json:"userAnswer"`
	IsCorrect     bool         `gorm:"not null;column:is_correct" json:"isCorrect"`
}

func (Question) TableName() string { return "question" }

// OptionList is the ordered choice list of a multiple-choice question.
// A nil list is stored as NULL and means the question has no options.
type OptionList []string

func (OptionList) GormDataType() string { return "text" }

func (o OptionList) Value() (driver.Value, error) {
	if o == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (o *OptionList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*o = nil
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("options: unsupported column type %T", src)
	}
	parsed, err := ParseOptionList(raw)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseOptionList reads a JSON array, falling back to comma-separated text
// for rows written before options were stored as JSON.
func ParseOptionList(raw string) (OptionList, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		out := OptionList{}
		if err := json.Unmarshal([]byte(raw), (*[]string)(&out)); err != nil {
			return nil, fmt.Errorf("options: %w", err)
		}
		return out, nil
	}
	parts := strings.Split(raw, ",")
	out := make(OptionList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
