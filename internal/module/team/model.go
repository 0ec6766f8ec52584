package team

import (
	"time"

	"github.com/lib/pq"
)

// TeamStatus is the team lifecycle status.
type TeamStatus string

const (
	TeamStatusActive  TeamStatus = "ACTIVE"
	TeamStatusPassive TeamStatus = "PASSIVE"
)

// Team is the team row. Moderators, Members and Todos hold foreign ids;
// the user and todo rows live in the other stores.
type Team struct {
	ID         string         `gorm:"type:uuid;primaryKey"`
	Name       string         `gorm:"size:64;not null"`
	Leader     string         `gorm:"type:uuid;not null"`
	CreatedBy  string         `gorm:"type:uuid;not null"`
	Moderators pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Members    pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Todos      pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	TeamStatus TeamStatus     `gorm:"size:16;not null;default:ACTIVE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name.
func (Team) TableName() string {
	return "teams"
}
