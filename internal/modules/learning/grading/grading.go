// Package grading holds the quiz correctness and score rules.
package grading

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrDivisionByZero is returned when a score is requested for zero answers.
var ErrDivisionByZero = errors.New("grading: no answers submitted")

// IsCorrect reports whether the lower-cased answer contains the lower-cased
// expected answer. Extra words around the expected fragment are accepted, and
// an empty expected answer matches anything.
func IsCorrect(userAnswer, correctAnswer string) bool {
	return strings.Contains(strings.ToLower(userAnswer), strings.ToLower(correctAnswer))
}

// Score is truncate(100 * correct / total).
func Score(correct, total int) (int, error) {
	if total <= 0 {
		return 0, ErrDivisionByZero
	}
	if correct < 0 || correct > total {
		return 0, fmt.Errorf("grading: correct count %d outside [0, %d]", correct, total)
	}
	return 100 * correct / total, nil
}

type Result struct {
	QuestionID string
	Answer     string
	IsCorrect  bool
}

type Outcome struct {
	Results         []Result
	Correct         int
	Total           int
	ScorePercentage int
}

// Grade checks every submitted answer against expected, which maps question id
// to its stored correct answer. The denominator is the number of submitted
// answers, not the size of the quiz. Results come back sorted by question id.
func Grade(answers map[string]string, expected map[string]string) (Outcome, error) {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := Outcome{Results: make([]Result, 0, len(ids)), Total: len(ids)}
	for _, id := range ids {
		correctAnswer, ok := expected[id]
		if !ok {
			return Outcome{}, fmt.Errorf("grading: no expected answer for question %s", id)
		}
		ok = IsCorrect(answers[id], correctAnswer)
		if ok {
			out.Correct++
		}
		out.Results = append(out.Results, Result{QuestionID: id, Answer: answers[id], IsCorrect: ok})
	}
	score, err := Score(out.Correct, out.Total)
	if err != nil {
		return Outcome{}, err
	}
	out.ScorePercentage = score
	return out, nil
}
