package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tenantctl/internal/entitlement"
	"github.com/smallbiznis/tenantctl/internal/feature/domain"
	"github.com/smallbiznis/tenantctl/internal/feature/repository"
	plandomain "github.com/smallbiznis/tenantctl/internal/plan/domain"
	tenantdomain "github.com/smallbiznis/tenantctl/internal/tenant/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&domain.Feature{},
		&plandomain.PlanEntitlement{},
		&tenantdomain.Override{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func TestCreateFeature(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.Create(ctx, domain.CreateRequest{
		Key:      "sso_enabled",
		Name:     "SSO",
		DataType: entitlement.DataTypeBool,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "sso_enabled", resp.Key)
	assert.Equal(t, entitlement.DataTypeBool, resp.DataType)
}

func TestCreateFeatureValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Key: "Bad-Key", Name: "x", DataType: entitlement.DataTypeBool})
	assert.ErrorIs(t, err, domain.ErrInvalidKey)

	_, err = svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "", DataType: entitlement.DataTypeInt})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats", DataType: "float"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)
}

func TestCreateFeatureDuplicateKey(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats", DataType: entitlement.DataTypeInt})
	require.NoError(t, err)

	_, err = svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats again", DataType: entitlement.DataTypeInt})
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestUpdateFeature(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats", DataType: entitlement.DataTypeInt})
	require.NoError(t, err)

	name := "Seat limit"
	desc := "Maximum member seats"
	updated, err := svc.Update(ctx, domain.UpdateRequest{ID: created.ID, Name: &name, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Seat limit", updated.Name)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "Maximum member seats", *updated.Description)
	assert.Equal(t, entitlement.DataTypeInt, updated.DataType)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "not-a-snowflake", Name: &name})
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Update(ctx, domain.UpdateRequest{ID: "12345", Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteFeature(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats", DataType: entitlement.DataTypeInt})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	referenced, err := svc.Create(ctx, domain.CreateRequest{Key: "sso_enabled", Name: "SSO", DataType: entitlement.DataTypeBool})
	require.NoError(t, err)
	require.NoError(t, conn.Exec(
		`INSERT INTO plan_entitlements (id, plan_id, feature_id, feature_key, data_type, value) VALUES (1, 1, ?, ?, ?, ?)`,
		referenced.ID, referenced.Key, referenced.DataType, `true`,
	).Error)

	err = svc.Delete(ctx, referenced.ID)
	assert.ErrorIs(t, err, domain.ErrInUse)
}

func TestRegistry(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats", DataType: entitlement.DataTypeInt})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Key: "sso_enabled", Name: "SSO", DataType: entitlement.DataTypeBool})
	require.NoError(t, err)

	reg, err := svc.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"seats", "sso_enabled"}, reg.Keys())

	dt, err := reg.DataTypeOf("seats")
	require.NoError(t, err)
	assert.Equal(t, entitlement.DataTypeInt, dt)
}

func TestListFeaturesFilter(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateRequest{Key: "seats", Name: "Seats", DataType: entitlement.DataTypeInt})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Key: "sso_enabled", Name: "SSO", DataType: entitlement.DataTypeBool})
	require.NoError(t, err)

	intType := entitlement.DataTypeInt
	items, err := svc.List(ctx, domain.ListRequest{DataType: &intType})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "seats", items[0].Key)

	items, err = svc.List(ctx, domain.ListRequest{Key: "sso_enabled"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sso_enabled", items[0].Key)
}
