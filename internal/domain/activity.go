package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity action types written by the reminder jobs and the ledger.
const (
	ActivityReminderSent      = "reminder_sent"
	ActivityManagerReminder   = "manager_reminder_72h"
	ActivityManagerNotified   = "manager_notified"
	ActivityCommissionDue     = "commission_due_reminder"
	ActivityValidationToggled = "validation_toggled"
)

// Activity is one append-only audit entry attached to a recommendation.
type Activity struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecoID     uuid.UUID      `gorm:"column:reco_id;type:uuid;not null;index" json:"reco_id"`
	ActionType string         `gorm:"column:action_type;not null" json:"action_type"`
	Note       string         `gorm:"column:note" json:"note"`
	Metadata   datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
