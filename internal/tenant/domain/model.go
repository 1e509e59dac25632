package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	"gorm.io/datatypes"
)

// Tenant is a customer workspace identified by a unique subdomain.
type Tenant struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	Name      string       `gorm:"type:text;not null"`
	Subdomain string       `gorm:"type:text;not null;uniqueIndex:ux_tenants_subdomain"`
	IsActive  bool         `gorm:"not null;default:true"`

	Subscription *Subscription `gorm:"foreignKey:TenantID"`
	Overrides    []Override    `gorm:"foreignKey:TenantID"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tenant) TableName() string { return "tenants" }

// Subscription links a tenant to its current plan. One row per tenant;
// assigning a new plan replaces it. Only the current subscription ever
// participates in resolution, so no history is kept.
type Subscription struct {
	ID        snowflake.ID                   `gorm:"primaryKey"`
	TenantID  snowflake.ID                   `gorm:"not null;uniqueIndex:ux_tenant_subscriptions_tenant"`
	PlanID    snowflake.ID                   `gorm:"not null;index"`
	Status    entitlement.SubscriptionStatus `gorm:"type:text;not null"`
	StartedAt time.Time                      `gorm:"not null"`
	EndsAt    *time.Time                     `gorm:""`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Subscription) TableName() string { return "tenant_subscriptions" }

// Override stores one tenant-specific typed value with optional expiry. The
// unique (tenant_id, feature_key) index gives set semantics: writes replace.
type Override struct {
	ID         snowflake.ID         `gorm:"primaryKey"`
	TenantID   snowflake.ID         `gorm:"not null;index;uniqueIndex:ux_tenant_overrides_key,priority:1"`
	FeatureID  snowflake.ID         `gorm:"not null;index"`
	FeatureKey string               `gorm:"type:text;not null;uniqueIndex:ux_tenant_overrides_key,priority:2"`
	DataType   entitlement.DataType `gorm:"column:data_type;type:text;not null"`
	Value      datatypes.JSON       `gorm:"type:jsonb;not null"`
	ExpiresAt  *time.Time           `gorm:"index"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Override) TableName() string { return "tenant_overrides" }

// TypedValue decodes the stored scalar, re-validating it against the stored
// data type.
func (o Override) TypedValue() (entitlement.Value, error) {
	return entitlement.ParseValue(o.DataType, o.Value)
}
