package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, plan *Plan) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Plan, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Plan, error)
	Update(ctx context.Context, db *gorm.DB, plan *Plan) error
	ReplaceEntitlements(ctx context.Context, db *gorm.DB, planID int64, rows []PlanEntitlement) error
	Delete(ctx context.Context, db *gorm.DB, id int64) error
	CountSubscriptions(ctx context.Context, db *gorm.DB, planID int64) (int64, error)
}
