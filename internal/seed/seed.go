package seed

import (
	"context"

	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
	"github.com/smallbiznis/tenantctl/internal/config"
)

// EnsureBootstrapAdmin creates the configured platform admin account when the
// users table has no matching row. A blank configuration is a no-op so
// deployments can manage accounts out of band.
func EnsureBootstrapAdmin(ctx context.Context, cfg config.Config, authSvc authdomain.Service) error {
	if cfg.BootstrapAdmin == "" || cfg.BootstrapPass == "" {
		return nil
	}
	return authSvc.EnsureUser(ctx, cfg.BootstrapAdmin, cfg.BootstrapPass, authdomain.RolePlatformAdmin)
}
