package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	featuredomain "github.com/smallbiznis/tenantctl/internal/feature/domain"
	"github.com/smallbiznis/tenantctl/internal/plan/domain"
	"github.com/smallbiznis/tenantctl/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Features featuredomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	genID    *snowflake.Node
	features featuredomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("plan.service"),
		repo:     p.Repo,
		genID:    p.GenID,
		features: p.Features,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Price < 0 {
		return nil, domain.ErrInvalidPrice
	}
	cycle := domain.BillingCycle(strings.ToLower(strings.TrimSpace(string(req.BillingCycle))))
	if !cycle.Valid() {
		return nil, domain.ErrInvalidBillingCycle
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	planID := s.genID.Generate()
	rows, err := s.buildEntitlementRows(ctx, planID, req.Entitlements)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &domain.Plan{
		ID:           planID,
		Name:         name,
		Price:        req.Price,
		BillingCycle: cycle,
		IsPublic:     isPublic,
		Entitlements: rows,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}

	resp := s.toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListRequest{
		Name:     strings.TrimSpace(req.Name),
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, domain.ErrInvalidPrice
		}
		item.Price = *req.Price
	}
	if req.BillingCycle != nil {
		cycle := domain.BillingCycle(strings.ToLower(strings.TrimSpace(string(*req.BillingCycle))))
		if !cycle.Valid() {
			return nil, domain.ErrInvalidBillingCycle
		}
		item.BillingCycle = cycle
	}
	if req.IsPublic != nil {
		item.IsPublic = *req.IsPublic
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateName
		}
		return nil, err
	}

	if req.Entitlements != nil {
		rows, err := s.buildEntitlementRows(ctx, item.ID, req.Entitlements)
		if err != nil {
			return nil, err
		}
		if err := s.repo.ReplaceEntitlements(ctx, s.db, item.ID.Int64(), rows); err != nil {
			return nil, err
		}
		item.Entitlements = rows
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	subs, err := s.repo.CountSubscriptions(ctx, s.db, item.ID.Int64())
	if err != nil {
		return err
	}
	if subs > 0 {
		return domain.ErrInUse
	}

	return s.repo.Delete(ctx, s.db, item.ID.Int64())
}

func (s *Service) EntitlementSet(ctx context.Context, reg *entitlement.Registry, planID int64) (*entitlement.Entitlements, error) {
	item, err := s.repo.FindByID(ctx, s.db, planID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	ents := entitlement.NewEntitlements()
	for _, row := range item.Entitlements {
		value, err := row.TypedValue()
		if err != nil {
			return nil, err
		}
		if err := ents.Set(reg, row.FeatureKey, value); err != nil {
			return nil, err
		}
	}
	return ents, nil
}

// buildEntitlementRows validates every wire value against the feature catalog
// and produces the rows to persist. Later entries for the same key win.
func (s *Service) buildEntitlementRows(ctx context.Context, planID snowflake.ID, inputs []domain.EntitlementInput) ([]domain.PlanEntitlement, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	reg, err := s.features.Registry(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	byKey := make(map[string]domain.PlanEntitlement, len(inputs))
	order := make([]string, 0, len(inputs))

	for _, input := range inputs {
		key := strings.TrimSpace(input.FeatureKey)
		feat, err := reg.Lookup(key)
		if err != nil {
			return nil, err
		}

		value, err := entitlement.ValueFromAny(input.Value)
		if err != nil {
			return nil, err
		}
		if value.Type() != feat.DataType {
			return nil, &entitlement.TypeMismatchError{Key: key, Want: feat.DataType, Got: value.Type()}
		}

		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}

		featureRecord, err := s.featureByKey(ctx, key)
		if err != nil {
			return nil, err
		}

		if _, seen := byKey[key]; !seen {
			order = append(order, key)
		}
		byKey[key] = domain.PlanEntitlement{
			ID:         s.genID.Generate(),
			PlanID:     planID,
			FeatureID:  featureRecord,
			FeatureKey: key,
			DataType:   feat.DataType,
			Value:      datatypes.JSON(raw),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}

	rows := make([]domain.PlanEntitlement, 0, len(byKey))
	for _, key := range order {
		rows = append(rows, byKey[key])
	}
	return rows, nil
}

func (s *Service) featureByKey(ctx context.Context, key string) (snowflake.ID, error) {
	items, err := s.features.List(ctx, featuredomain.ListRequest{Key: key})
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, featuredomain.ErrNotFound
	}
	id, err := snowflake.ParseString(items[0].ID)
	if err != nil {
		return 0, featuredomain.ErrInvalidID
	}
	return id, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Plan, error) {
	planID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, planID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) toResponse(p *domain.Plan) domain.Response {
	ents := make([]domain.EntitlementResponse, 0, len(p.Entitlements))
	for _, row := range p.Entitlements {
		value, err := row.TypedValue()
		if err != nil {
			s.log.Warn("skipping undecodable plan entitlement",
				zap.String("plan_id", p.ID.String()),
				zap.String("feature_key", row.FeatureKey),
				zap.Error(err),
			)
			continue
		}
		ents = append(ents, domain.EntitlementResponse{
			FeatureID:  row.FeatureID.String(),
			FeatureKey: row.FeatureKey,
			DataType:   row.DataType,
			Value:      value.Scalar(),
		})
	}

	return domain.Response{
		ID:           p.ID.String(),
		Name:         p.Name,
		Price:        p.Price,
		BillingCycle: p.BillingCycle,
		IsPublic:     p.IsPublic,
		Entitlements: ents,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
