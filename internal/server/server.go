package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/tenantctl/internal/audit"
	auditdomain "github.com/smallbiznis/tenantctl/internal/audit/domain"
	"github.com/smallbiznis/tenantctl/internal/auth"
	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
	"github.com/smallbiznis/tenantctl/internal/config"
	"github.com/smallbiznis/tenantctl/internal/feature"
	featuredomain "github.com/smallbiznis/tenantctl/internal/feature/domain"
	"github.com/smallbiznis/tenantctl/internal/plan"
	plandomain "github.com/smallbiznis/tenantctl/internal/plan/domain"
	"github.com/smallbiznis/tenantctl/internal/tenant"
	tenantdomain "github.com/smallbiznis/tenantctl/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	auth.Module,
	audit.Module,
	feature.Module,
	plan.Module,
	tenant.Module,
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(Run),
)

// Server bundles the domain services behind the admin API handlers.
type Server struct {
	log        *zap.Logger
	db         *gorm.DB
	authSvc    authdomain.Service
	auditSvc   auditdomain.Service
	featureSvc featuredomain.Service
	planSvc    plandomain.Service
	tenantSvc  tenantdomain.Service
}

type ServerParams struct {
	fx.In

	Log        *zap.Logger
	DB         *gorm.DB
	AuthSvc    authdomain.Service
	AuditSvc   auditdomain.Service
	FeatureSvc featuredomain.Service
	PlanSvc    plandomain.Service
	TenantSvc  tenantdomain.Service
}

func NewServer(p ServerParams) *Server {
	return &Server{
		log:        p.Log.Named("server"),
		db:         p.DB,
		authSvc:    p.AuthSvc,
		auditSvc:   p.AuditSvc,
		featureSvc: p.FeatureSvc,
		planSvc:    p.PlanSvc,
		tenantSvc:  p.TenantSvc,
	}
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(log))
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func RegisterRoutes(r *gin.Engine, s *Server) {
	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth")
	authGroup.POST("/login", s.Login)
	authGroup.POST("/refresh", s.Refresh)
	authGroup.GET("/me", s.RequireAuth(), s.Me)

	platform := v1.Group("/platform", s.RequireAuth())

	platform.GET("/stats", s.DashboardStats)
	platform.GET("/audit-logs", s.ListAuditLogs)

	platform.POST("/features", s.CreateFeature)
	platform.GET("/features", s.ListFeatures)
	platform.GET("/features/:id", s.GetFeature)
	platform.PATCH("/features/:id", s.UpdateFeature)
	platform.DELETE("/features/:id", s.DeleteFeature)

	platform.POST("/plans", s.CreatePlan)
	platform.GET("/plans", s.ListPlans)
	platform.GET("/plans/:id", s.GetPlan)
	platform.PATCH("/plans/:id", s.UpdatePlan)
	platform.DELETE("/plans/:id", s.DeletePlan)

	platform.POST("/tenants", s.CreateTenant)
	platform.GET("/tenants", s.ListTenants)
	platform.GET("/tenants/:id", s.GetTenant)
	platform.PATCH("/tenants/:id", s.UpdateTenant)
	platform.DELETE("/tenants/:id", s.DeleteTenant)
	platform.POST("/tenants/:id/assign_plan", s.AssignPlan)
	platform.PUT("/tenants/:id/overrides", s.SetOverride)
	platform.DELETE("/tenants/:id/overrides/:key", s.RemoveOverride)
	platform.GET("/tenants/:id/entitlements", s.TenantEntitlements)
	platform.POST("/overrides/prune", s.PruneOverrides)
}

func Run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.ListenAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
