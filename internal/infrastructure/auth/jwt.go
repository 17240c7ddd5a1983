package auth

import (
	"errors"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
)

// TokenType distinguishes access from refresh tokens. Each kind is signed
// with its own secret so one cannot be replayed as the other.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingTenantID    = errors.New("missing tenant_id in claims")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims is the token body. The tenant is taken from here and nowhere else;
// request parameters never override it.
type Claims struct {
	jwt.RegisteredClaims
	TenantID     string    `json:"tenant_id"`
	UserID       string    `json:"user_id"`
	Username     string    `json:"username"`
	Role         string    `json:"role,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// Actor is the caller identity carried by an access token
func (c *Claims) Actor() identity.Actor {
	return identity.Actor{
		TenantID: c.TenantID,
		UserID:   c.UserID,
		Username: c.Username,
		Role:     identity.RoleCode(c.Role),
	}
}

// GetIssuedAtTime is the iat claim, zero if absent
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// GetRemainingTTL is how long the token stays valid; used as the
// blacklist entry lifetime on logout.
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return max(time.Until(c.ExpiresAt.Time), 0)
}

// TokenPair is returned by login, register and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// Subject is the user a pair is issued to
type Subject struct {
	TenantID string
	UserID   string
	Username string
	Role     string
}

type tokenKind struct {
	typ    TokenType
	secret []byte
	ttl    time.Duration
}

// JWTService issues and verifies HS256 tokens
type JWTService struct {
	access          tokenKind
	refresh         tokenKind
	issuer          string
	maxRefreshCount int
	now             func() time.Time
}

// NewJWTService builds the service from config. Without a RefreshSecret the
// access secret signs both kinds; TokenType still keeps them apart.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := []byte(cfg.RefreshSecret)
	if len(refreshSecret) == 0 {
		refreshSecret = []byte(cfg.Secret)
	}
	return &JWTService{
		access:          tokenKind{typ: TokenTypeAccess, secret: []byte(cfg.Secret), ttl: cfg.AccessTokenExpiration},
		refresh:         tokenKind{typ: TokenTypeRefresh, secret: refreshSecret, ttl: cfg.RefreshTokenExpiration},
		issuer:          cfg.Issuer,
		maxRefreshCount: cfg.MaxRefreshCount,
		now:             time.Now,
	}
}

// GenerateTokenPair issues a fresh access and refresh token
func (s *JWTService) GenerateTokenPair(sub Subject) (*TokenPair, error) {
	return s.issue(sub, 0)
}

// RefreshTokenPair rotates a refresh token. current is the user as stored
// now, so a role change lands in the new access token.
func (s *JWTService) RefreshTokenPair(refreshToken string, current Subject) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case claims.RefreshCount >= s.maxRefreshCount:
		return nil, claims, ErrMaxRefreshExceeded
	case current.TenantID != claims.TenantID, current.UserID != claims.UserID:
		return nil, claims, ErrInvalidClaims
	}

	pair, err := s.issue(current, claims.RefreshCount+1)
	return pair, claims, err
}

func (s *JWTService) issue(sub Subject, refreshCount int) (*TokenPair, error) {
	if sub.TenantID == "" {
		return nil, ErrMissingTenantID
	}
	if sub.UserID == "" {
		return nil, ErrMissingUserID
	}
	now := s.now()

	access, err := s.sign(s.access, now, &Claims{
		TenantID: sub.TenantID,
		UserID:   sub.UserID,
		Username: sub.Username,
		Role:     sub.Role,
	})
	if err != nil {
		return nil, err
	}
	// the user is reloaded on refresh, so the refresh body stays minimal
	refresh, err := s.sign(s.refresh, now, &Claims{
		TenantID:     sub.TenantID,
		UserID:       sub.UserID,
		RefreshCount: refreshCount,
	})
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  now.Add(s.access.ttl),
		RefreshTokenExpiresAt: now.Add(s.refresh.ttl),
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(kind tokenKind, now time.Time, claims *Claims) (string, error) {
	claims.TokenType = kind.typ
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        shared.NewIDAt(now),
		Issuer:    s.issuer,
		Subject:   claims.UserID,
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(now.Add(kind.ttl)),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(kind.secret)
}

// ValidateAccessToken verifies an access token
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.verify(s.access, token)
}

// ValidateRefreshToken verifies a refresh token
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.verify(s.refresh, token)
}

func (s *JWTService) verify(kind tokenKind, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return kind.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	case !token.Valid:
		return nil, ErrInvalidClaims
	case claims.TokenType != kind.typ:
		return nil, ErrInvalidTokenType
	case claims.TenantID == "":
		return nil, ErrMissingTenantID
	case claims.UserID == "":
		return nil, ErrMissingUserID
	}
	return claims, nil
}
