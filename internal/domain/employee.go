package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee is one member of the agency network. ManagerID points at the
// employee's direct manager (one level of hierarchy, self-referential).
type Employee struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email        string     `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"column:password_hash" json:"-"`
	FirstName    *string    `gorm:"column:first_name" json:"first_name"`
	LastName     *string    `gorm:"column:last_name" json:"last_name"`
	Role         string     `gorm:"column:role;not null;default:'employee'" json:"role"`
	ManagerID    *uuid.UUID `gorm:"column:manager_id;type:uuid" json:"manager_id"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"column:created_at" json:"created_at"`
}

func (Employee) TableName() string {
	return "employees"
}

func (e *Employee) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// FullName joins first and last name, falling back to the email.
func (e *Employee) FullName() string {
	var parts []string
	if e.FirstName != nil && *e.FirstName != "" {
		parts = append(parts, *e.FirstName)
	}
	if e.LastName != nil && *e.LastName != "" {
		parts = append(parts, *e.LastName)
	}
	if len(parts) == 0 {
		return e.Email
	}
	return strings.Join(parts, " ")
}
