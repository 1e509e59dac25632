package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
	"github.com/smallbiznis/tenantctl/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (authdomain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&authdomain.User{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Config: config.Config{
			AuthJWTSecret:   "test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 24 * time.Hour,
		},
	})
	return svc, conn
}

func TestLogin(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "s3cret", authdomain.RolePlatformAdmin))

	resp, err := svc.Login(ctx, authdomain.LoginRequest{Email: "Admin@Example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Access)
	assert.NotEmpty(t, resp.Refresh)
	assert.Equal(t, "admin@example.com", resp.User.Email)
	assert.Equal(t, authdomain.RolePlatformAdmin, resp.User.Role)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "admin@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, authdomain.LoginRequest{Email: "nobody@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestLoginDisabledUser(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "s3cret", authdomain.RolePlatformAdmin))
	require.NoError(t, conn.Exec(`UPDATE users SET is_active = false`).Error)

	_, err := svc.Login(ctx, authdomain.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	assert.ErrorIs(t, err, authdomain.ErrUserDisabled)
}

func TestVerify(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "s3cret", authdomain.RolePlatformAdmin))
	resp, err := svc.Login(ctx, authdomain.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)

	identity, err := svc.Verify(ctx, resp.Access)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.UserID)
	assert.Equal(t, "admin@example.com", identity.Email)
	assert.Equal(t, authdomain.RolePlatformAdmin, identity.Role)

	// a refresh token is not an access token
	_, err = svc.Verify(ctx, resp.Refresh)
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)

	_, err = svc.Verify(ctx, "not.a.token")
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)
}

func TestRefresh(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "s3cret", authdomain.RolePlatformAdmin))
	resp, err := svc.Login(ctx, authdomain.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)

	rotated, err := svc.Refresh(ctx, resp.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.Access)
	assert.Equal(t, resp.User.ID, rotated.User.ID)

	// an access token is not a refresh token
	_, err = svc.Refresh(ctx, resp.Access)
	assert.ErrorIs(t, err, authdomain.ErrInvalidToken)

	require.NoError(t, conn.Exec(`UPDATE users SET is_active = false`).Error)
	_, err = svc.Refresh(ctx, resp.Refresh)
	assert.ErrorIs(t, err, authdomain.ErrUserDisabled)
}

func TestEnsureUserIdempotent(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "s3cret", authdomain.RolePlatformAdmin))
	require.NoError(t, svc.EnsureUser(ctx, "admin@example.com", "different", authdomain.RoleStaff))

	var count int64
	require.NoError(t, conn.Table("users").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// the original password still works
	_, err := svc.Login(ctx, authdomain.LoginRequest{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)
}
