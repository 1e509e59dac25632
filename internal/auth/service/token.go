package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	authdomain "github.com/smallbiznis/tenantctl/internal/auth/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type claims struct {
	jwt.RegisteredClaims
	Email     string          `json:"email"`
	Role      authdomain.Role `json:"role"`
	TokenType string          `json:"token_type"`
}

func (s *Service) issueToken(user *authdomain.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
	})
	return token.SignedString([]byte(s.secret))
}

func (s *Service) parseToken(raw, wantType string) (*claims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, authdomain.ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, authdomain.ErrTokenExpired
		}
		return nil, authdomain.ErrInvalidToken
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid || c.TokenType != wantType {
		return nil, authdomain.ErrInvalidToken
	}
	return c, nil
}
