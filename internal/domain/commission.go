package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Commission statuses.
const (
	CommissionPending = "pending"
	CommissionReady   = "ready"
	CommissionPaid    = "paid"
)

// Commission is the payable derived from a recommendation once its deal
// stage reaches acte_recrute. At most one per recommendation.
type Commission struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecoID    uuid.UUID `gorm:"column:reco_id;type:uuid;not null;uniqueIndex" json:"reco_id"`
	Amount    float64   `gorm:"column:amount;not null;default:0" json:"amount"`
	Status    string    `gorm:"column:status;not null;default:'pending'" json:"status"`
	DueDate   *time.Time `gorm:"column:due_date" json:"due_date"`
	PaidAt    *time.Time `gorm:"column:paid_at" json:"paid_at"`
	// Cooldown marker for the commission-due cron reminder.
	RemindedAt *time.Time `gorm:"column:reminded_at" json:"reminded_at"`

	ValidatedByManager bool      `gorm:"column:validated_by_manager;not null;default:false" json:"validated_by_manager"`
	CreatedAt          time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Commission) TableName() string {
	return "commissions"
}

func (c *Commission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommissionLog records each manager validation toggle. Append-only.
type CommissionLog struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CommissionID uuid.UUID `gorm:"column:commission_id;type:uuid;not null;index" json:"commission_id"`
	Action       string    `gorm:"column:action;not null" json:"action"` // validated | unvalidated
	DoneBy       string    `gorm:"column:done_by;not null" json:"done_by"`
	Comment      string    `gorm:"column:comment" json:"comment"`
	DoneAt       time.Time `gorm:"column:done_at" json:"done_at"`
}

func (CommissionLog) TableName() string {
	return "commission_logs"
}

func (l *CommissionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
