package aggregates_test

import (
	"testing"

	domainagg "github.com/mestudy/mestudy-core/internal/domain/aggregates"
)

func TestContracts_TablesExist(t *testing.T) {
	f := newFixture(t)
	aggs := []domainagg.Aggregate{f.lessonPlans(), f.quizzes()}
	for _, agg := range aggs {
		c := agg.Contract()
		if len(c.Tables) == 0 {
			t.Fatalf("%s declares no tables", c.Name)
		}
		for _, table := range c.Tables {
			if !f.db.Migrator().HasTable(table) {
				t.Fatalf("%s writes unknown table %q", c.Name, table)
			}
		}
	}
	if domainagg.LessonPlanAggregateContract.Writes("quiz") {
		t.Fatalf("lesson plan writes must not touch quizzes")
	}
	if !domainagg.QuizAggregateContract.Writes("study_plan") {
		t.Fatalf("quiz grading must cover the study plan score")
	}
}
