package learning

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownValue is wrapped by every Parse function on input outside its enum.
var ErrUnknownValue = errors.New("unknown enum value")

// Status is shared by StudyPlan, LessonPlan and Quiz. Each row tracks its own copy.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// ParseStatus accepts the stored raw values and their snake/camel spellings.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.NewReplacer("_", "", " ", "", "-", "").Replace(strings.TrimSpace(raw))) {
	case "notstarted":
		return StatusNotStarted, nil
	case "inprogress":
		return StatusInProgress, nil
	case "completed":
		return StatusCompleted, nil
	default:
		return "", fmt.Errorf("%w: status %q", ErrUnknownValue, raw)
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// QuestionType is stored as its raw value and parsed strictly on read.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionShortAnswer    QuestionType = "short_answer"
	QuestionPracticeTask   QuestionType = "practice_task"
)

func ParseQuestionType(raw string) (QuestionType, error) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(raw))) {
	case QuestionMultipleChoice:
		return QuestionMultipleChoice, nil
	case QuestionShortAnswer:
		return QuestionShortAnswer, nil
	case QuestionPracticeTask:
		return QuestionPracticeTask, nil
	default:
		return "", fmt.Errorf("%w: question type %q", ErrUnknownValue, raw)
	}
}

// TaskRole discriminates the learning and practice lists of a timetable.
type TaskRole string

const (
	TaskRoleLearning TaskRole = "learning"
	TaskRolePractice TaskRole = "practice"
)

func ParseTaskRole(raw string) (TaskRole, error) {
	switch TaskRole(strings.ToLower(strings.TrimSpace(raw))) {
	case TaskRoleLearning:
		return TaskRoleLearning, nil
	case TaskRolePractice:
		return TaskRolePractice, nil
	default:
		return "", fmt.Errorf("%w: task role %q", ErrUnknownValue, raw)
	}
}
