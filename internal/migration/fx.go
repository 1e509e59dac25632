package migration

import (
	"context"

	auditdomain "github.com/smallbiznis/tenantctl/internal/audit/domain"
	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
	"github.com/smallbiznis/tenantctl/internal/config"
	featuredomain "github.com/smallbiznis/tenantctl/internal/feature/domain"
	plandomain "github.com/smallbiznis/tenantctl/internal/plan/domain"
	"github.com/smallbiznis/tenantctl/internal/seed"
	tenantdomain "github.com/smallbiznis/tenantctl/internal/tenant/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, authSvc authdomain.Service) error {
		if err := AutoMigrate(conn); err != nil {
			return err
		}
		return seed.EnsureBootstrapAdmin(context.Background(), cfg, authSvc)
	}),
)

// AutoMigrate creates every core table so the service is usable out of the
// box for local and self-hosted environments.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&authdomain.User{},
		&featuredomain.Feature{},
		&plandomain.Plan{},
		&plandomain.PlanEntitlement{},
		&tenantdomain.Tenant{},
		&tenantdomain.Subscription{},
		&tenantdomain.Override{},
		&auditdomain.AuditLog{},
	)
}
