package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
)

// Feature is the persisted catalog entry behind the in-memory registry. The
// data type column is written once at creation and never updated.
type Feature struct {
	ID          snowflake.ID         `gorm:"primaryKey"`
	Key         string               `gorm:"type:text;not null;uniqueIndex:ux_features_key"`
	Name        string               `gorm:"type:text;not null"`
	Description *string              `gorm:"type:text"`
	DataType    entitlement.DataType `gorm:"column:data_type;type:text;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Feature) TableName() string { return "features" }
