package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/mestudy/mestudy-core/internal/domain"
)

// AutoMigrateAll creates missing tables and columns. Existing rows are untouched,
// so it runs on every start.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(types.Models()...)
}

func EnsureStudyIndexes(db *gorm.DB) error {
	stmts := []struct {
		name string
		sql  string
	}{
		{
			name: "idx_study_plan_user_created_at",
			sql: `CREATE INDEX IF NOT EXISTS idx_study_plan_user_created_at
				ON study_plan (user_id, created_at DESC);`,
		},
		{
			name: "idx_lesson_plan_study_plan_created_at",
			sql: `CREATE INDEX IF NOT EXISTS idx_lesson_plan_study_plan_created_at
				ON lesson_plan (study_plan_id, created_at DESC);`,
		},
		{
			name: "idx_question_quiz_position",
			sql: `CREATE INDEX IF NOT EXISTS idx_question_quiz_position
				ON question (quiz_id, position);`,
		},
	}
	for _, st := range stmts {
		if err := db.Exec(st.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", st.name, err)
		}
	}
	return nil
}
