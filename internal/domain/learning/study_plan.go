package learning

import (
	"time"

	"github.com/mestudy/mestudy-core/internal/domain/user"
)

type StudyPlan struct {
	ID                    string     `gorm:"primaryKey;column:id" json:"id"`
	UserID                string     `gorm:"not null;index;column:user_id" json:"userId"`
	User                  *user.User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Grade                 string     `gorm:"not null;column:grade" json:"grade"`
	Subject               string     `gorm:"not null;column:subject" json:"subject"`
	Topic                 string     `gorm:"not null;column:topic" json:"topic"`
	StudyDurationMonths   int        `gorm:"not null;column:study_duration" json:"studyDuration"`
	StudyFrequencyPerWeek int        `gorm:"not null;column:study_frequency" json:"studyFrequency"`
	Status                Status     `gorm:"not null;column:status" json:"status"`
	// ScorePercentage is only meaningful once Status is Completed.
	ScorePercentage int       `gorm:"not null;column:score_percentage" json:"scorePercentage"`
	CreatedAt       time.Time `gorm:"not null;index;column:created_at" json:"createdAt"`
}

func (StudyPlan) TableName() string { return "study_plan" }
