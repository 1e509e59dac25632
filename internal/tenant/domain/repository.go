package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Tenant, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Tenant, int64, error)
	Update(ctx context.Context, db *gorm.DB, tenant *Tenant) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error

	ReplaceSubscription(ctx context.Context, db *gorm.DB, sub *Subscription) error
	UpsertOverride(ctx context.Context, db *gorm.DB, override *Override) error
	DeleteOverride(ctx context.Context, db *gorm.DB, tenantID int64, featureKey string) (int64, error)
	DeleteExpiredOverrides(ctx context.Context, db *gorm.DB, at time.Time) (int64, error)
}
