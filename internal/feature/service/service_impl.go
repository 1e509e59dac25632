package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	"github.com/smallbiznis/tenantctl/internal/feature/domain"
	"github.com/smallbiznis/tenantctl/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("feature.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	key := strings.TrimSpace(req.Key)
	if !entitlement.ValidKey(key) {
		return nil, domain.ErrInvalidKey
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	if !req.DataType.Valid() {
		return nil, domain.ErrInvalidType
	}

	description := trimPtr(req.Description)

	now := time.Now().UTC()
	record := &domain.Feature{
		ID:          s.genID.Generate(),
		Key:         key,
		Name:        name,
		Description: description,
		DataType:    req.DataType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, s.db, record); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateKey
		}
		return nil, err
	}

	resp := s.toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListRequest{
		Key:      strings.TrimSpace(req.Key),
		Name:     strings.TrimSpace(req.Name),
		DataType: req.DataType,
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
	if req.Description != nil {
		item.Description = trimPtr(req.Description)
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	item, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	refs, err := s.repo.CountReferences(ctx, s.db, item.Key)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrInUse
	}

	return s.repo.Delete(ctx, s.db, item.ID.Int64())
}

func (s *Service) Registry(ctx context.Context) (*entitlement.Registry, error) {
	items, err := s.repo.List(ctx, s.db, domain.ListRequest{})
	if err != nil {
		return nil, err
	}

	reg := entitlement.NewRegistry()
	for _, item := range items {
		if err := reg.Register(item.Key, item.DataType, item.Name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Feature, error) {
	featureID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	item, err := s.repo.FindByID(ctx, s.db, featureID.Int64())
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) toResponse(f *domain.Feature) domain.Response {
	return domain.Response{
		ID:          f.ID.String(),
		Key:         f.Key,
		Name:        f.Name,
		Description: f.Description,
		DataType:    f.DataType,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
