package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantctl/internal/clock"
	"github.com/smallbiznis/tenantctl/internal/config"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	featuredomain "github.com/smallbiznis/tenantctl/internal/feature/domain"
	plandomain "github.com/smallbiznis/tenantctl/internal/plan/domain"
	"github.com/smallbiznis/tenantctl/internal/tenant/domain"
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
	Config   config.Config
	Clock    clock.Clock
	Repo     domain.Repository
	Features featuredomain.Service
	Plans    plandomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	genID       *snowflake.Node
	clock       clock.Clock
	features    featuredomain.Service
	plans       plandomain.Service
	overrideTTL time.Duration
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("tenant.service"),
		repo:        p.Repo,
		genID:       p.GenID,
		clock:       p.Clock,
		features:    p.Features,
		plans:       p.Plans,
		overrideTTL: p.Config.OverrideDefaultTTL,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if !entitlement.ValidKey(strings.ReplaceAll(subdomain, "-", "_")) {
		return nil, domain.ErrInvalidSubdomain
	}

	now := s.clock.Now()
	record := &domain.Tenant{
		ID:        s.genID.Generate(),
		Name:      name,
		Subdomain: subdomain,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if req.InitialPlanID != nil {
		planID, err := snowflake.ParseString(strings.TrimSpace(*req.InitialPlanID))
		if err != nil {
			return nil, domain.ErrInvalidPlan
		}
		if _, err := s.plans.Get(ctx, planID.String()); err != nil {
			return nil, domain.ErrInvalidPlan
		}
		record.Subscription = &domain.Subscription{
			ID:        s.genID.Generate(),
			TenantID:  record.ID,
			PlanID:    planID,
			Status:    entitlement.StatusActive,
			StartedAt: now,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateSub
		}
		return nil, err
	}

	return s.respond(ctx, record, false)
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	items, count, err := s.repo.List(ctx, s.db, domain.ListRequest{
		Subdomain: strings.ToLower(strings.TrimSpace(req.Subdomain)),
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		return nil, err
	}

	results := make([]domain.Response, 0, len(items))
	for i := range items {
		resp, err := s.respond(ctx, &items[i], false)
		if err != nil {
			return nil, err
		}
		results = append(results, *resp)
	}
	return &domain.ListResponse{Count: count, Results: results}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	item, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, item, true)
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
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	return s.respond(ctx, item, false)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, s.db, item.ID.Int64())
}

func (s *Service) AssignPlan(ctx context.Context, req domain.AssignPlanRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	planID, err := snowflake.ParseString(strings.TrimSpace(req.PlanID))
	if err != nil {
		return nil, domain.ErrInvalidPlan
	}
	if _, err := s.plans.Get(ctx, planID.String()); err != nil {
		return nil, domain.ErrInvalidPlan
	}

	now := s.clock.Now()
	sub := &domain.Subscription{
		ID:        s.genID.Generate(),
		TenantID:  item.ID,
		PlanID:    planID,
		Status:    entitlement.StatusActive,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.ReplaceSubscription(ctx, s.db, sub); err != nil {
		return nil, err
	}

	item.Subscription = sub
	return s.respond(ctx, item, true)
}

func (s *Service) SetOverride(ctx context.Context, req domain.SetOverrideRequest) (*domain.Response, error) {
	item, err := s.find(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	reg, err := s.features.Registry(ctx)
	if err != nil {
		return nil, err
	}

	key := strings.TrimSpace(req.FeatureKey)
	feat, err := reg.Lookup(key)
	if err != nil {
		return nil, err
	}

	value, err := entitlement.ValueFromAny(req.Value)
	if err != nil {
		return nil, err
	}
	if value.Type() != feat.DataType {
		return nil, &entitlement.TypeMismatchError{Key: key, Want: feat.DataType, Got: value.Type()}
	}

	// unspecified expiry gets the default TTL; NeverExpires opts out
	var expiresAt *time.Time
	switch {
	case req.ExpiresAt != nil:
		expiresAt = req.ExpiresAt
	case !req.NeverExpires:
		deadline := s.clock.Now().Add(s.overrideTTL)
		expiresAt = &deadline
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	featureID, err := s.featureID(ctx, key)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	override := &domain.Override{
		ID:         s.genID.Generate(),
		TenantID:   item.ID,
		FeatureID:  featureID,
		FeatureKey: key,
		DataType:   feat.DataType,
		Value:      datatypes.JSON(raw),
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.UpsertOverride(ctx, s.db, override); err != nil {
		return nil, err
	}

	return s.Get(ctx, item.ID.String())
}

func (s *Service) RemoveOverride(ctx context.Context, tenantID, featureKey string) (*domain.Response, error) {
	item, err := s.find(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	affected, err := s.repo.DeleteOverride(ctx, s.db, item.ID.Int64(), strings.TrimSpace(featureKey))
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrOverrideNotFound
	}

	return s.Get(ctx, item.ID.String())
}

func (s *Service) PruneOverrides(ctx context.Context) (int64, error) {
	removed, err := s.repo.DeleteExpiredOverrides(ctx, s.db, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("pruned expired overrides", zap.Int64("removed", removed))
	}
	return removed, nil
}

func (s *Service) Entitlements(ctx context.Context, tenantID string) (map[string]any, error) {
	item, err := s.find(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	reg, err := s.features.Registry(ctx)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, reg, item)
}

// snapshot assembles the pure resolution input from persisted rows, re-validating
// every stored value against the registry on the way in.
func (s *Service) snapshot(ctx context.Context, reg *entitlement.Registry, item *domain.Tenant) (entitlement.TenantSnapshot, error) {
	overrides := entitlement.NewOverrides()
	for _, row := range item.Overrides {
		value, err := row.TypedValue()
		if err != nil {
			return entitlement.TenantSnapshot{}, err
		}
		if err := overrides.Set(reg, row.FeatureKey, value, row.ExpiresAt); err != nil {
			return entitlement.TenantSnapshot{}, err
		}
	}

	snap := entitlement.TenantSnapshot{Overrides: overrides}
	if item.Subscription != nil {
		ents, err := s.plans.EntitlementSet(ctx, reg, item.Subscription.PlanID.Int64())
		if err != nil {
			return entitlement.TenantSnapshot{}, err
		}
		snap.Subscription = &entitlement.Subscription{
			Status:       item.Subscription.Status,
			Entitlements: ents,
		}
	}
	return snap, nil
}

func (s *Service) resolveAll(ctx context.Context, reg *entitlement.Registry, item *domain.Tenant) (map[string]any, error) {
	snap, err := s.snapshot(ctx, reg, item)
	if err != nil {
		return nil, err
	}

	resolved, err := entitlement.ResolveAll(reg, snap, s.clock.Now())
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(resolved))
	for key, value := range resolved {
		out[key] = value.Scalar()
	}
	return out, nil
}

func (s *Service) respond(ctx context.Context, item *domain.Tenant, withEntitlements bool) (*domain.Response, error) {
	resp := &domain.Response{
		ID:        item.ID.String(),
		Name:      item.Name,
		Subdomain: item.Subdomain,
		IsActive:  item.IsActive,
		Overrides: make([]domain.OverrideResponse, 0, len(item.Overrides)),
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}

	if item.Subscription != nil {
		sub := &domain.SubscriptionResponse{
			PlanID:    item.Subscription.PlanID.String(),
			Status:    item.Subscription.Status,
			StartedAt: item.Subscription.StartedAt,
			EndsAt:    item.Subscription.EndsAt,
		}
		if plan, err := s.plans.Get(ctx, sub.PlanID); err == nil {
			sub.PlanName = plan.Name
		}
		resp.Subscription = sub
	}

	for _, row := range item.Overrides {
		value, err := row.TypedValue()
		if err != nil {
			s.log.Warn("skipping undecodable override",
				zap.String("tenant_id", item.ID.String()),
				zap.String("feature_key", row.FeatureKey),
				zap.Error(err),
			)
			continue
		}
		resp.Overrides = append(resp.Overrides, domain.OverrideResponse{
			FeatureID:  row.FeatureID.String(),
			FeatureKey: row.FeatureKey,
			DataType:   row.DataType,
			Value:      value.Scalar(),
			ExpiresAt:  row.ExpiresAt,
		})
	}

	if withEntitlements {
		reg, err := s.features.Registry(ctx)
		if err != nil {
			return nil, err
		}
		entitlements, err := s.resolveAll(ctx, reg, item)
		if err != nil {
			return nil, err
		}
		resp.Entitlements = entitlements
	}

	return resp, nil
}

func (s *Service) featureID(ctx context.Context, key string) (snowflake.ID, error) {
	items, err := s.features.List(ctx, featuredomain.ListRequest{Key: key})
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, featuredomain.ErrNotFound
	}
	return snowflake.ParseString(items[0].ID)
}

func (s *Service) find(ctx context.Context, id string) (*domain.Tenant, error) {
	tenantID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, tenantID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}
