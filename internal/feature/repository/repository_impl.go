package repository

import (
	"context"
	"errors"

	"github.com/smallbiznis/tenantctl/internal/feature/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, feature *domain.Feature) error {
	return db.WithContext(ctx).Create(feature).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Feature, error) {
	var f domain.Feature
	err := db.WithContext(ctx).First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Feature, error) {
	var items []domain.Feature
	stmt := db.WithContext(ctx).Model(&domain.Feature{})

	if filter.Key != "" {
		stmt = stmt.Where("key = ?", filter.Key)
	}
	if filter.Name != "" {
		stmt = stmt.Where("name = ?", filter.Name)
	}
	if filter.DataType != nil {
		stmt = stmt.Where("data_type = ?", *filter.DataType)
	}

	if err := stmt.Order("key asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, feature *domain.Feature) error {
	if feature == nil {
		return gorm.ErrInvalidData
	}
	// data_type is immutable and deliberately absent from the update set
	return db.WithContext(ctx).Exec(
		`UPDATE features SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		feature.Name,
		feature.Description,
		feature.UpdatedAt,
		feature.ID,
	).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) error {
	return db.WithContext(ctx).Exec(`DELETE FROM features WHERE id = ?`, id).Error
}

// CountReferences counts plan entitlements and tenant overrides that still
// point at the feature key. A non-zero count blocks hard deletion.
func (r *repo) CountReferences(ctx context.Context, db *gorm.DB, key string) (int64, error) {
	var planRefs int64
	if err := db.WithContext(ctx).Table("plan_entitlements").Where("feature_key = ?", key).Count(&planRefs).Error; err != nil {
		return 0, err
	}
	var overrideRefs int64
	if err := db.WithContext(ctx).Table("tenant_overrides").Where("feature_key = ?", key).Count(&overrideRefs).Error; err != nil {
		return 0, err
	}
	return planRefs + overrideRefs, nil
}
