package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Login exchanges credentials for a session and stores the token pair on the
// client for subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/v1/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.access = session.Access
	c.refresh = session.Refresh
	c.mu.Unlock()

	return &session, nil
}

// RefreshSession rotates the token pair using the stored refresh token.
func (c *Client) RefreshSession(ctx context.Context) (*Session, error) {
	c.mu.RLock()
	refresh := c.refresh
	c.mu.RUnlock()

	var session Session
	err := c.do(ctx, http.MethodPost, "/v1/auth/refresh", nil, map[string]string{
		"refresh": refresh,
	}, &session)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.access = session.Access
	c.refresh = session.Refresh
	c.mu.Unlock()

	return &session, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.doData(ctx, http.MethodGet, "/v1/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

type ListAuditLogsOptions struct {
	Action     string
	TargetType string
	TargetID   string
	Limit      int
}

func (c *Client) ListAuditLogs(ctx context.Context, opts ListAuditLogsOptions) ([]AuditLog, error) {
	query := url.Values{}
	if opts.Action != "" {
		query.Set("action", opts.Action)
	}
	if opts.TargetType != "" {
		query.Set("target_type", opts.TargetType)
	}
	if opts.TargetID != "" {
		query.Set("target_id", opts.TargetID)
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	var logs []AuditLog
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/audit-logs", query, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) CreateFeature(ctx context.Context, req CreateFeatureRequest) (*Feature, error) {
	var feature Feature
	if err := c.doData(ctx, http.MethodPost, "/v1/platform/features", nil, req, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (c *Client) ListFeatures(ctx context.Context) ([]Feature, error) {
	var features []Feature
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/features", nil, nil, &features); err != nil {
		return nil, err
	}
	return features, nil
}

func (c *Client) GetFeature(ctx context.Context, id string) (*Feature, error) {
	var feature Feature
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/features/"+url.PathEscape(id), nil, nil, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (c *Client) UpdateFeature(ctx context.Context, id string, req UpdateFeatureRequest) (*Feature, error) {
	var feature Feature
	if err := c.doData(ctx, http.MethodPatch, "/v1/platform/features/"+url.PathEscape(id), nil, req, &feature); err != nil {
		return nil, err
	}
	return &feature, nil
}

func (c *Client) DeleteFeature(ctx context.Context, id string) error {
	return c.doData(ctx, http.MethodDelete, "/v1/platform/features/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) CreatePlan(ctx context.Context, req CreatePlanRequest) (*Plan, error) {
	var plan Plan
	if err := c.doData(ctx, http.MethodPost, "/v1/platform/plans", nil, req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) ListPlans(ctx context.Context) ([]Plan, error) {
	var plans []Plan
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/plans", nil, nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

func (c *Client) GetPlan(ctx context.Context, id string) (*Plan, error) {
	var plan Plan
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/plans/"+url.PathEscape(id), nil, nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) UpdatePlan(ctx context.Context, id string, req UpdatePlanRequest) (*Plan, error) {
	var plan Plan
	if err := c.doData(ctx, http.MethodPatch, "/v1/platform/plans/"+url.PathEscape(id), nil, req, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	return c.doData(ctx, http.MethodDelete, "/v1/platform/plans/"+url.PathEscape(id), nil, nil, nil)
}

type ListTenantsOptions struct {
	Subdomain string
	IsActive  *bool
	Page      int
	PageSize  int
}

func (c *Client) CreateTenant(ctx context.Context, req CreateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	if err := c.doData(ctx, http.MethodPost, "/v1/platform/tenants", nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) ListTenants(ctx context.Context, opts ListTenantsOptions) (*TenantList, error) {
	query := url.Values{}
	if opts.Subdomain != "" {
		query.Set("subdomain", opts.Subdomain)
	}
	if opts.IsActive != nil {
		query.Set("is_active", strconv.FormatBool(*opts.IsActive))
	}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(opts.PageSize))
	}

	// The list endpoint responds with the count/results body directly.
	var list TenantList
	if err := c.do(ctx, http.MethodGet, "/v1/platform/tenants", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetTenant(ctx context.Context, id string) (*Tenant, error) {
	var tenant Tenant
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/tenants/"+url.PathEscape(id), nil, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) UpdateTenant(ctx context.Context, id string, req UpdateTenantRequest) (*Tenant, error) {
	var tenant Tenant
	if err := c.doData(ctx, http.MethodPatch, "/v1/platform/tenants/"+url.PathEscape(id), nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) DeleteTenant(ctx context.Context, id string) error {
	return c.doData(ctx, http.MethodDelete, "/v1/platform/tenants/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) AssignPlan(ctx context.Context, tenantID, planID string) (*Tenant, error) {
	var tenant Tenant
	err := c.doData(ctx, http.MethodPost, "/v1/platform/tenants/"+url.PathEscape(tenantID)+"/assign_plan", nil, map[string]string{
		"plan_id": planID,
	}, &tenant)
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) SetOverride(ctx context.Context, tenantID string, req SetOverrideRequest) (*Tenant, error) {
	var tenant Tenant
	if err := c.doData(ctx, http.MethodPut, "/v1/platform/tenants/"+url.PathEscape(tenantID)+"/overrides", nil, req, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (c *Client) RemoveOverride(ctx context.Context, tenantID, featureKey string) (*Tenant, error) {
	path := "/v1/platform/tenants/" + url.PathEscape(tenantID) + "/overrides/" + url.PathEscape(featureKey)
	var tenant Tenant
	if err := c.doData(ctx, http.MethodDelete, path, nil, nil, &tenant); err != nil {
		return nil, err
	}
	return &tenant, nil
}

// TenantEntitlements returns the tenant's effective value for every
// registered feature.
func (c *Client) TenantEntitlements(ctx context.Context, tenantID string) (map[string]any, error) {
	var entitlements map[string]any
	if err := c.doData(ctx, http.MethodGet, "/v1/platform/tenants/"+url.PathEscape(tenantID)+"/entitlements", nil, nil, &entitlements); err != nil {
		return nil, err
	}
	return entitlements, nil
}

// PruneOverrides removes expired override rows and returns how many were
// deleted.
func (c *Client) PruneOverrides(ctx context.Context) (int64, error) {
	var result struct {
		Removed int64 `json:"removed"`
	}
	if err := c.doData(ctx, http.MethodPost, "/v1/platform/overrides/prune", nil, nil, &result); err != nil {
		return 0, err
	}
	return result.Removed, nil
}
