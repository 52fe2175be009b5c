package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task is a single to-do item. Every task belongs to exactly one owner and
// is only reachable through owner-scoped queries.
type Task struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	Priority    string    `json:"priority" gorm:"size:10;default:'low';index"`
	DueDate     time.Time `json:"dueDate"`
	Completed   bool      `json:"completed" gorm:"default:false;index"`
	OwnerID     uint      `json:"owner" gorm:"not null;index"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate sets the UUID before inserting the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
