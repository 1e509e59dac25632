package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	tenantdomain "github.com/smallbiznis/tenantctl/internal/tenant/domain"
)

func (s *Server) CreateTenant(c *gin.Context) {
	var req tenantdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "tenant.create", "tenant", resp.ID, map[string]any{
		"subdomain": resp.Subdomain,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListTenants(c *gin.Context) {
	var query struct {
		Subdomain string `form:"subdomain"`
		IsActive  string `form:"is_active"`
		Page      int    `form:"page,default=1"`
		PageSize  int    `form:"page_size,default=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	isActive, err := parseOptionalBool(query.IsActive)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.List(c.Request.Context(), tenantdomain.ListRequest{
		Subdomain: strings.TrimSpace(query.Subdomain),
		IsActive:  isActive,
		Page:      query.Page,
		PageSize:  query.PageSize,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) GetTenant(c *gin.Context) {
	resp, err := s.tenantSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateTenant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req tenantdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = id

	resp, err := s.tenantSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "tenant.update", "tenant", resp.ID, nil)

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteTenant(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.tenantSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "tenant.delete", "tenant", id, nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) AssignPlan(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req struct {
		PlanID string `json:"plan_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.AssignPlan(c.Request.Context(), tenantdomain.AssignPlanRequest{
		TenantID: id,
		PlanID:   strings.TrimSpace(req.PlanID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "tenant.assign_plan", "tenant", resp.ID, map[string]any{
		"plan_id": req.PlanID,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type setOverrideRequest struct {
	FeatureKey   string     `json:"feature_key"`
	Value        any        `json:"value"`
	ExpiresAt    *time.Time `json:"expires_at"`
	NeverExpires bool       `json:"never_expires"`
}

func (s *Server) SetOverride(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req setOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.tenantSvc.SetOverride(c.Request.Context(), tenantdomain.SetOverrideRequest{
		TenantID:     id,
		FeatureKey:   strings.TrimSpace(req.FeatureKey),
		Value:        req.Value,
		ExpiresAt:    req.ExpiresAt,
		NeverExpires: req.NeverExpires,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "tenant.set_override", "tenant", resp.ID, map[string]any{
		"feature_key": req.FeatureKey,
		"value":       req.Value,
		"expires_at":  req.ExpiresAt,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RemoveOverride(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	key := strings.TrimSpace(c.Param("key"))

	resp, err := s.tenantSvc.RemoveOverride(c.Request.Context(), id, key)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "tenant.remove_override", "tenant", resp.ID, map[string]any{
		"feature_key": key,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) TenantEntitlements(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	resp, err := s.tenantSvc.Entitlements(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) PruneOverrides(c *gin.Context) {
	removed, err := s.tenantSvc.PruneOverrides(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "override.prune", "override", "", map[string]any{
		"removed": removed,
	})

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"removed": removed}})
}
