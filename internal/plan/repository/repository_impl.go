package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/tenantctl/internal/plan/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	return db.WithContext(ctx).Create(plan).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Plan, error) {
	var p domain.Plan
	err := db.WithContext(ctx).Preload("Entitlements").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Plan, error) {
	var items []domain.Plan
	stmt := db.WithContext(ctx).Model(&domain.Plan{}).Preload("Entitlements")

	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.IsPublic != nil {
		stmt = stmt.Where("is_public = ?", *filter.IsPublic)
	}

	if err := stmt.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, plan *domain.Plan) error {
	if plan == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE plans SET name = ?, price = ?, billing_cycle = ?, is_public = ?, updated_at = ? WHERE id = ?`,
		plan.Name,
		plan.Price,
		plan.BillingCycle,
		plan.IsPublic,
		plan.UpdatedAt,
		plan.ID,
	).Error
}

// ReplaceEntitlements swaps the full entitlement row set of a plan inside one
// transaction. Upsert-by-key semantics fall out of delete-then-insert.
func (r *repo) ReplaceEntitlements(ctx context.Context, db *gorm.DB, planID int64, rows []domain.PlanEntitlement) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM plan_entitlements WHERE plan_id = ?`, planID).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM plan_entitlements WHERE plan_id = ?`, id).Error; err != nil {
			return err
		}
		return tx.Exec(`DELETE FROM plans WHERE id = ?`, id).Error
	})
}

func (r *repo) CountSubscriptions(ctx context.Context, db *gorm.DB, planID int64) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Table("tenant_subscriptions").Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}
