package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	"gorm.io/datatypes"
)

type BillingCycle string

const (
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
	BillingCycleYearly    BillingCycle = "yearly"
)

func (c BillingCycle) Valid() bool {
	switch c {
	case BillingCycleMonthly, BillingCycleQuarterly, BillingCycleYearly:
		return true
	default:
		return false
	}
}

// Plan is a subscription plan. It exclusively owns its entitlement rows; many
// tenants may reference one plan through their current subscription.
type Plan struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null;uniqueIndex:ux_plans_name"`
	Price        float64      `gorm:"not null;default:0"`
	BillingCycle BillingCycle `gorm:"column:billing_cycle;type:text;not null"`
	IsPublic     bool         `gorm:"not null;default:true"`

	Entitlements []PlanEntitlement `gorm:"foreignKey:PlanID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Plan) TableName() string { return "plans" }

// PlanEntitlement stores one typed default value a plan grants for a feature.
// The value column holds the bare JSON scalar; data_type repeats the feature's
// type so rows can be decoded and re-validated without a join.
type PlanEntitlement struct {
	ID         snowflake.ID         `gorm:"primaryKey"`
	PlanID     snowflake.ID         `gorm:"not null;index;uniqueIndex:ux_plan_entitlements_key,priority:1"`
	FeatureID  snowflake.ID         `gorm:"not null;index"`
	FeatureKey string               `gorm:"type:text;not null;uniqueIndex:ux_plan_entitlements_key,priority:2"`
	DataType   entitlement.DataType `gorm:"column:data_type;type:text;not null"`
	Value      datatypes.JSON       `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (PlanEntitlement) TableName() string { return "plan_entitlements" }

// TypedValue decodes the stored scalar, re-validating it against the stored
// data type.
func (e PlanEntitlement) TypedValue() (entitlement.Value, error) {
	return entitlement.ParseValue(e.DataType, e.Value)
}
