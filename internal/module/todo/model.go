package todo

import (
	"time"
)

// Status is the todo workflow status.
type Status string

const (
	StatusActive     Status = "ACTIVE"
	StatusInProgress Status = "INPROGRESS"
	StatusDone       Status = "DONE"
)

// Todo is the todo row. Team and AssignedTo reference rows owned by the
// team and user stores.
type Todo struct {
	ID         string  `gorm:"type:uuid;primaryKey"`
	Title      string  `gorm:"size:255;not null"`
	Desc       string  `gorm:"size:2048"`
	CreatedBy  string  `gorm:"type:uuid;not null"`
	Status     Status  `gorm:"size:16;not null;default:ACTIVE"`
	Assigned   bool    `gorm:"not null;default:false"`
	AssignedTo *string `gorm:"type:uuid"`
	Private    bool    `gorm:"not null;default:false"`
	Team       *string `gorm:"type:uuid"`
	Archived   bool    `gorm:"not null;default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name.
func (Todo) TableName() string {
	return "todos"
}
