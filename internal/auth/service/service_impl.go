package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
	"github.com/smallbiznis/tenantctl/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Config config.Config
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(p Params) authdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("auth.service"),
		genID:      p.GenID,
		secret:     p.Config.AuthJWTSecret,
		accessTTL:  p.Config.AccessTokenTTL,
		refreshTTL: p.Config.RefreshTokenTTL,
	}
}

func (s *Service) Login(ctx context.Context, req authdomain.LoginRequest) (*authdomain.LoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, authdomain.ErrInvalidCredentials
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// burn a comparison so missing accounts cost the same as bad passwords
		_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$000000000000000000000u"), []byte(req.Password))
		return nil, authdomain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, authdomain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, authdomain.ErrUserDisabled
	}

	return s.tokens(user)
}

func (s *Service) Refresh(ctx context.Context, refreshToken string) (*authdomain.LoginResponse, error) {
	c, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	userID, err := snowflake.ParseString(c.Subject)
	if err != nil {
		return nil, authdomain.ErrInvalidToken
	}

	var user authdomain.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID.Int64()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authdomain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, authdomain.ErrUserDisabled
	}

	return s.tokens(&user)
}

func (s *Service) Verify(ctx context.Context, accessToken string) (*authdomain.Identity, error) {
	c, err := s.parseToken(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, err
	}
	return &authdomain.Identity{
		UserID: c.Subject,
		Email:  c.Email,
		Role:   c.Role,
	}, nil
}

// EnsureUser creates the account when absent; used by the startup seed.
func (s *Service) EnsureUser(ctx context.Context, email, password string, role authdomain.Role) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return authdomain.ErrInvalidCredentials
	}

	existing, err := s.findByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	user := &authdomain.User{
		ID:           s.genID.Generate(),
		Email:        normalized,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	s.log.Info("seeded admin user", zap.String("email", normalized))
	return nil
}

func (s *Service) tokens(user *authdomain.User) (*authdomain.LoginResponse, error) {
	access, err := s.issueToken(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.issueToken(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &authdomain.LoginResponse{
		Access:  access,
		Refresh: refresh,
		User: authdomain.UserResponse{
			ID:        user.ID.String(),
			Email:     user.Email,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Role:      user.Role,
			IsActive:  user.IsActive,
		},
	}, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	var user authdomain.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Address), nil
}
