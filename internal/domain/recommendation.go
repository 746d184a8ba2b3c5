package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recommendation is one client introduction from a prescriptor to a receiver.
// Column names match the live `recommendations` table.
type Recommendation struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`

	PrescriptorID    uuid.UUID `gorm:"column:prescriptor_id;type:uuid;not null" json:"prescriptor_id"`
	PrescriptorName  string    `gorm:"column:prescriptor_name" json:"prescriptor_name"`
	PrescriptorEmail string    `gorm:"column:prescriptor_email" json:"prescriptor_email"`

	// Receiver is resolved by id when available; email is the fallback key.
	ReceiverID    *uuid.UUID `gorm:"column:receiver_id;type:uuid" json:"receiver_id"`
	ReceiverEmail string     `gorm:"column:receiver_email" json:"receiver_email"`

	ClientName     string  `gorm:"column:client_name;not null" json:"client_name"`
	ClientEmail    *string `gorm:"column:client_email" json:"client_email"`
	ClientPhone    *string `gorm:"column:client_phone" json:"client_phone"`
	ProjectTitle   *string `gorm:"column:project_title" json:"project_title"`
	ProjectDetails *string `gorm:"column:project_details" json:"project_details"`

	IntakeStatus string `gorm:"column:intake_status;not null;default:'non_traitee'" json:"intake_status"`
	DealStage    string `gorm:"column:deal_stage;not null;default:'nouveau'" json:"deal_stage"`

	// One-time revenue and optional annual recurring revenue, in euros.
	Amount       *float64 `gorm:"column:amount" json:"amount"`
	AnnualAmount *float64 `gorm:"column:annual_amount" json:"annual_amount"`

	// Reminder bookkeeping. A null timestamp means "never sent".
	DueReminderAt        *time.Time `gorm:"column:due_reminder_at" json:"due_reminder_at"`
	ManagerDueReminderAt *time.Time `gorm:"column:manager_due_reminder_at" json:"manager_due_reminder_at"`
	ManagerNotifiedAt    *time.Time `gorm:"column:manager_notified_at" json:"manager_notified_at"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
