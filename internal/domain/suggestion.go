package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FeatureSuggestion is an improvement idea submitted by an employee.
type FeatureSuggestion struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null" json:"employee_id"`
	Name       string    `gorm:"column:name" json:"name"`
	Suggestion string    `gorm:"column:suggestion;not null" json:"suggestion"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (FeatureSuggestion) TableName() string {
	return "feature_suggestions"
}

func (s *FeatureSuggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
