package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is a free-text comment on a recommendation.
type Note struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecoID    uuid.UUID  `gorm:"column:reco_id;type:uuid;not null;index" json:"reco_id"`
	AuthorID  *uuid.UUID `gorm:"column:author_id;type:uuid" json:"author_id"`
	Body      string     `gorm:"column:body;not null" json:"body"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`

	Author *Employee `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Note) TableName() string {
	return "notes"
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
