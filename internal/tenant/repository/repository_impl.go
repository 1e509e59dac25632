package repository

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/tenantctl/internal/tenant/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	return db.WithContext(ctx).Create(tenant).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Tenant, error) {
	var t domain.Tenant
	err := db.WithContext(ctx).
		Preload("Subscription").
		Preload("Overrides").
		First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Tenant, int64, error) {
	stmt := db.WithContext(ctx).Model(&domain.Tenant{})

	if filter.Subdomain != "" {
		stmt = stmt.Where("subdomain = ?", filter.Subdomain)
	}
	if filter.IsActive != nil {
		stmt = stmt.Where("is_active = ?", *filter.IsActive)
	}

	var count int64
	if err := stmt.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size < 1 || size > 250 {
		size = 50
	}

	var items []domain.Tenant
	err := stmt.
		Preload("Subscription").
		Preload("Overrides").
		Order("created_at desc").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, tenant *domain.Tenant) error {
	if tenant == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE tenants SET name = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		tenant.Name,
		tenant.IsActive,
		tenant.UpdatedAt,
		tenant.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM tenant_overrides WHERE tenant_id = ?`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM tenant_subscriptions WHERE tenant_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM tenants WHERE id = ?`, id).Error
	})
}

// ReplaceSubscription swaps the tenant's current subscription row. Run inside
// a transaction so a tenant never briefly has two current subscriptions.
func (r *repo) ReplaceSubscription(ctx context.Context, db *gorm.DB, sub *domain.Subscription) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM tenant_subscriptions WHERE tenant_id = ?`, sub.TenantID).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
}

// UpsertOverride replaces any existing override for the (tenant, feature key)
// pair. Value and expiry are both overwritten; the old row leaves no trace.
func (r *repo) UpsertOverride(ctx context.Context, db *gorm.DB, override *domain.Override) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM tenant_overrides WHERE tenant_id = ? AND feature_key = ?`,
			override.TenantID, override.FeatureKey,
		).Error; err != nil {
			return err
		}
		return tx.Create(override).Error
	})
}

func (r *repo) DeleteOverride(ctx context.Context, db *gorm.DB, tenantID int64, featureKey string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM tenant_overrides WHERE tenant_id = ? AND feature_key = ?`,
		tenantID, featureKey,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteExpiredOverrides(ctx context.Context, db *gorm.DB, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`DELETE FROM tenant_overrides WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		at,
	)
	return res.RowsAffected, res.Error
}
