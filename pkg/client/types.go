package client

import "time"

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

type Session struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

type Feature struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	DataType    string    `json:"data_type"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateFeatureRequest struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	DataType    string  `json:"data_type"`
}

type UpdateFeatureRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type PlanEntitlement struct {
	FeatureID  string `json:"feature_id"`
	FeatureKey string `json:"feature_key"`
	DataType   string `json:"data_type"`
	Value      any    `json:"value"`
}

type Plan struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Price        float64           `json:"price"`
	BillingCycle string            `json:"billing_cycle"`
	IsPublic     bool              `json:"is_public"`
	Entitlements []PlanEntitlement `json:"entitlements"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

type EntitlementInput struct {
	FeatureKey string `json:"feature_key"`
	Value      any    `json:"value"`
}

type CreatePlanRequest struct {
	Name         string             `json:"name"`
	Price        float64            `json:"price"`
	BillingCycle string             `json:"billing_cycle"`
	IsPublic     *bool              `json:"is_public,omitempty"`
	Entitlements []EntitlementInput `json:"entitlements,omitempty"`
}

type UpdatePlanRequest struct {
	Name         *string            `json:"name,omitempty"`
	Price        *float64           `json:"price,omitempty"`
	BillingCycle *string            `json:"billing_cycle,omitempty"`
	IsPublic     *bool              `json:"is_public,omitempty"`
	Entitlements []EntitlementInput `json:"entitlements,omitempty"`
}

type Subscription struct {
	PlanID    string     `json:"plan_id"`
	PlanName  string     `json:"plan_name"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"started_at"`
	EndsAt    *time.Time `json:"ends_at,omitempty"`
}

type Override struct {
	FeatureID  string     `json:"feature_id"`
	FeatureKey string     `json:"feature_key"`
	DataType   string     `json:"data_type"`
	Value      any        `json:"value"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type Tenant struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Subdomain    string         `json:"subdomain"`
	IsActive     bool           `json:"is_active"`
	Subscription *Subscription  `json:"current_subscription,omitempty"`
	Overrides    []Override     `json:"feature_overrides"`
	Entitlements map[string]any `json:"entitlements,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

type TenantList struct {
	Count   int64    `json:"count"`
	Results []Tenant `json:"results"`
}

type CreateTenantRequest struct {
	Name          string  `json:"name"`
	Subdomain     string  `json:"subdomain"`
	InitialPlanID *string `json:"initial_plan_id,omitempty"`
}

type UpdateTenantRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type SetOverrideRequest struct {
	FeatureKey   string     `json:"feature_key"`
	Value        any        `json:"value"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
	NeverExpires bool       `json:"never_expires,omitempty"`
}

type AuditLog struct {
	ID         string         `json:"id"`
	ActorID    *string        `json:"actor_id,omitempty"`
	Action     string         `json:"action"`
	TargetType string         `json:"target_type"`
	TargetID   *string        `json:"target_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

type DashboardStats struct {
	TotalTenants  int64 `json:"total_tenants"`
	ActiveTenants int64 `json:"active_tenants"`
	TotalPlans    int64 `json:"total_plans"`
	TotalFeatures int64 `json:"total_features"`
}
