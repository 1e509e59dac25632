package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/tenantctl/internal/entitlement"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	AssignPlan(ctx context.Context, req AssignPlanRequest) (*Response, error)
	SetOverride(ctx context.Context, req SetOverrideRequest) (*Response, error)
	RemoveOverride(ctx context.Context, tenantID, featureKey string) (*Response, error)
	PruneOverrides(ctx context.Context) (int64, error)

	// Entitlements resolves the effective value of every registered feature
	// for the tenant at the current instant.
	Entitlements(ctx context.Context, tenantID string) (map[string]any, error)
}

type ListRequest struct {
	Subdomain string
	IsActive  *bool
	Page      int
	PageSize  int
}

type ListResponse struct {
	Count   int64      `json:"count"`
	Results []Response `json:"results"`
}

type CreateRequest struct {
	Name          string  `json:"name"`
	Subdomain     string  `json:"subdomain"`
	InitialPlanID *string `json:"initial_plan_id"`
}

type UpdateRequest struct {
	ID       string  `json:"id"`
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type AssignPlanRequest struct {
	TenantID string `json:"tenant_id"`
	PlanID   string `json:"plan_id"`
}

// SetOverrideRequest carries an untyped wire scalar plus an optional expiry.
// A nil expiry gets the configured default TTL; an explicit null is expressed
// through NeverExpires.
type SetOverrideRequest struct {
	TenantID     string     `json:"tenant_id"`
	FeatureKey   string     `json:"feature_key"`
	Value        any        `json:"value"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	NeverExpires bool       `json:"never_expires,omitempty"`
}

type SubscriptionResponse struct {
	PlanID    string                         `json:"plan_id"`
	PlanName  string                         `json:"plan_name"`
	Status    entitlement.SubscriptionStatus `json:"status"`
	StartedAt time.Time                      `json:"started_at"`
	EndsAt    *time.Time                     `json:"ends_at,omitempty"`
}

type OverrideResponse struct {
	FeatureID  string               `json:"feature_id"`
	FeatureKey string               `json:"feature_key"`
	DataType   entitlement.DataType `json:"data_type"`
	Value      any                  `json:"value"`
	ExpiresAt  *time.Time           `json:"expires_at,omitempty"`
}

type Response struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Subdomain    string                `json:"subdomain"`
	IsActive     bool                  `json:"is_active"`
	Subscription *SubscriptionResponse `json:"current_subscription,omitempty"`
	Overrides    []OverrideResponse    `json:"feature_overrides"`
	Entitlements map[string]any        `json:"entitlements,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

var (
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidSubdomain = errors.New("invalid_subdomain")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidPlan      = errors.New("invalid_plan")
	ErrDuplicateSub     = errors.New("duplicate_subdomain")
	ErrNotFound         = errors.New("not_found")
	ErrOverrideNotFound = errors.New("override_not_found")
)
