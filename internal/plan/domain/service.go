package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/tenantctl/internal/entitlement"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// EntitlementSet materializes a plan's rows as a validated entitlement set.
	EntitlementSet(ctx context.Context, reg *entitlement.Registry, planID int64) (*entitlement.Entitlements, error)
}

type ListRequest struct {
	Name     string
	IsPublic *bool
}

// EntitlementInput carries an untyped wire scalar; the service validates its
// tag against the feature catalog before anything is stored.
type EntitlementInput struct {
	FeatureKey string `json:"feature_key"`
	Value      any    `json:"value"`
}

type CreateRequest struct {
	Name         string             `json:"name"`
	Price        float64            `json:"price"`
	BillingCycle BillingCycle       `json:"billing_cycle"`
	IsPublic     *bool              `json:"is_public"`
	Entitlements []EntitlementInput `json:"entitlements"`
}

type UpdateRequest struct {
	ID           string             `json:"id"`
	Name         *string            `json:"name,omitempty"`
	Price        *float64           `json:"price,omitempty"`
	BillingCycle *BillingCycle      `json:"billing_cycle,omitempty"`
	IsPublic     *bool              `json:"is_public,omitempty"`
	Entitlements []EntitlementInput `json:"entitlements,omitempty"`
}

type EntitlementResponse struct {
	FeatureID  string               `json:"feature_id"`
	FeatureKey string               `json:"feature_key"`
	DataType   entitlement.DataType `json:"data_type"`
	Value      any                  `json:"value"`
}

type Response struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Price        float64               `json:"price"`
	BillingCycle BillingCycle          `json:"billing_cycle"`
	IsPublic     bool                  `json:"is_public"`
	Entitlements []EntitlementResponse `json:"entitlements"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidPrice        = errors.New("invalid_price")
	ErrInvalidBillingCycle = errors.New("invalid_billing_cycle")
	ErrInvalidID           = errors.New("invalid_id")
	ErrDuplicateName       = errors.New("duplicate_name")
	ErrNotFound            = errors.New("not_found")
	ErrInUse               = errors.New("plan_in_use")
)
