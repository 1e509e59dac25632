package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/tenantctl/internal/entitlement"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// Registry materializes the full catalog as a resolution registry.
	Registry(ctx context.Context) (*entitlement.Registry, error)
}

type ListRequest struct {
	Key      string
	Name     string
	DataType *entitlement.DataType
}

type CreateRequest struct {
	Key         string               `json:"key"`
	Name        string               `json:"name"`
	Description *string              `json:"description"`
	DataType    entitlement.DataType `json:"data_type"`
}

type UpdateRequest struct {
	ID          string  `json:"id"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type Response struct {
	ID          string               `json:"id"`
	Key         string               `json:"key"`
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	DataType    entitlement.DataType `json:"data_type"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}

var (
	ErrInvalidKey   = errors.New("invalid_key")
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidType  = errors.New("invalid_data_type")
	ErrInvalidID    = errors.New("invalid_id")
	ErrDuplicateKey = errors.New("duplicate_key")
	ErrNotFound     = errors.New("not_found")
	ErrInUse        = errors.New("feature_in_use")
)
