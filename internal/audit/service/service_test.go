package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tenantctl/internal/audit/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) domain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{DB: conn, Log: zap.NewNop(), GenID: node})
}

func TestAuditLog(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	actor := "42"
	target := "100"
	err := svc.AuditLog(ctx, &actor, "tenant.create", "tenant", &target, map[string]any{"subdomain": "acme"})
	require.NoError(t, err)

	err = svc.AuditLog(ctx, nil, "  ", "tenant", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)

	items, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "tenant.create", items[0].Action)
	require.NotNil(t, items[0].ActorID)
	assert.Equal(t, "42", *items[0].ActorID)
	assert.Equal(t, "acme", items[0].Metadata["subdomain"])
}

func TestListAuditLogsFilter(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	targetA := "1"
	targetB := "2"
	require.NoError(t, svc.AuditLog(ctx, nil, "tenant.create", "tenant", &targetA, nil))
	require.NoError(t, svc.AuditLog(ctx, nil, "tenant.delete", "tenant", &targetA, nil))
	require.NoError(t, svc.AuditLog(ctx, nil, "plan.create", "plan", &targetB, nil))

	items, err := svc.List(ctx, domain.ListRequest{Action: "tenant.delete"})
	require.NoError(t, err)
	require.Len(t, items, 1)

	items, err = svc.List(ctx, domain.ListRequest{TargetType: "tenant"})
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = svc.List(ctx, domain.ListRequest{TargetID: "2"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "plan.create", items[0].Action)
}
