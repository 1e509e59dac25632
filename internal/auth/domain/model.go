package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Role string

const (
	RolePlatformAdmin Role = "platform_admin"
	RoleStaff         Role = "staff"
)

// User is a platform administrator account.
type User struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Email        string       `gorm:"type:text;not null;uniqueIndex:ux_users_email"`
	PasswordHash string       `gorm:"type:text;not null"`
	FirstName    string       `gorm:"type:text"`
	LastName     string       `gorm:"type:text"`
	Role         Role         `gorm:"type:text;not null;default:platform_admin"`
	IsActive     bool         `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (User) TableName() string { return "users" }
