package domain

import (
	"context"
	"errors"
)

type Service interface {
	AuditLog(ctx context.Context, actorID *string, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, req ListRequest) ([]AuditLog, error)
}

type ListRequest struct {
	Action     string
	TargetType string
	TargetID   string
	Limit      int
}

var ErrInvalidAction = errors.New("invalid_action")
