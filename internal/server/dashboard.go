package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	plandomain "github.com/smallbiznis/tenantctl/internal/plan/domain"
	tenantdomain "github.com/smallbiznis/tenantctl/internal/tenant/domain"
)

type dashboardStats struct {
	TotalTenants  int64 `json:"total_tenants"`
	ActiveTenants int64 `json:"active_tenants"`
	TotalPlans    int64 `json:"total_plans"`
	TotalFeatures int64 `json:"total_features"`
}

func (s *Server) DashboardStats(c *gin.Context) {
	ctx := c.Request.Context()
	var stats dashboardStats

	if err := s.db.WithContext(ctx).Model(&tenantdomain.Tenant{}).Count(&stats.TotalTenants).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&tenantdomain.Tenant{}).Where("is_active = ?", true).Count(&stats.ActiveTenants).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Model(&plandomain.Plan{}).Count(&stats.TotalPlans).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.db.WithContext(ctx).Table("features").Count(&stats.TotalFeatures).Error; err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}
