package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	featuredomain "github.com/smallbiznis/tenantctl/internal/feature/domain"
)

func (s *Server) CreateFeature(c *gin.Context) {
	var req featuredomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.featureSvc.Create(c.Request.Context(), featuredomain.CreateRequest{
		Key:         strings.TrimSpace(req.Key),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		DataType:    entitlement.DataType(strings.ToLower(strings.TrimSpace(string(req.DataType)))),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "feature.create", "feature", resp.ID, map[string]any{
		"key":       resp.Key,
		"data_type": resp.DataType,
	})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFeatures(c *gin.Context) {
	var query struct {
		Key      string `form:"key"`
		Name     string `form:"name"`
		DataType string `form:"data_type"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var dataType *entitlement.DataType
	if raw := strings.TrimSpace(query.DataType); raw != "" {
		parsed := entitlement.DataType(strings.ToLower(raw))
		if !parsed.Valid() {
			AbortWithError(c, featuredomain.ErrInvalidType)
			return
		}
		dataType = &parsed
	}

	resp, err := s.featureSvc.List(c.Request.Context(), featuredomain.ListRequest{
		Key:      strings.TrimSpace(query.Key),
		Name:     strings.TrimSpace(query.Name),
		DataType: dataType,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFeature(c *gin.Context) {
	resp, err := s.featureSvc.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) UpdateFeature(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req featuredomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = id

	resp, err := s.featureSvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "feature.update", "feature", resp.ID, map[string]any{"key": resp.Key})

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteFeature(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.featureSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	s.audit(c, "feature.delete", "feature", id, nil)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
