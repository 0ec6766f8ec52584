package user

import (
	"time"

	"github.com/lib/pq"
)

// UserType is the account type.
type UserType string

const (
	UserTypeUser  UserType = "USER"
	UserTypeAdmin UserType = "ADMIN"
)

// UserStatus is the account status.
type UserStatus string

const (
	UserStatusActive UserStatus = "ACTIVE"
	UserStatusBanned UserStatus = "BANNED"
)

// User is the account row. Todos and Teams are sets of foreign ids owned
// by the other stores; only their ids are stored here.
type User struct {
	ID                 string         `gorm:"type:uuid;primaryKey"`
	Username           string         `gorm:"size:64;not null"`
	Email              string         `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash       string         `gorm:"size:255;not null"`
	FirstName          string         `gorm:"size:64"`
	LastName           string         `gorm:"size:64"`
	ProfileImage       string         `gorm:"size:512"`
	ResetPasswordToken string         `gorm:"size:16"`
	RPTExpires         *time.Time     `gorm:"column:rpt_expires"`
	UserType           UserType       `gorm:"size:16;not null;default:USER"`
	UserStatus         UserStatus     `gorm:"size:16;not null;default:ACTIVE"`
	BanReason          string         `gorm:"size:255"`
	Todos              pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	Teams              pq.StringArray `gorm:"type:text[];not null;default:'{}'"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TableName returns the table name.
func (User) TableName() string {
	return "users"
}
