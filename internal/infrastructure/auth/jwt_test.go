package auth

import (
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
	return NewJWTService(cfg)
}

func newTestSubject() Subject {
	return Subject{
		TenantID: shared.NewID(),
		UserID:   shared.NewID(),
		Username: "testuser",
		Role:     "sales",
	}
}

func sharedSecretConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "test-secret"})

	assert.Equal(t, []byte("test-secret"), svc.refresh.secret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair(newTestSubject())

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.AccessTokenExpiresAt.After(time.Now()))
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
}

func TestGenerateTokenPair_RequiresTenantAndUser(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.GenerateTokenPair(Subject{UserID: "u"})
	assert.ErrorIs(t, err, ErrMissingTenantID)

	_, err = svc.GenerateTokenPair(Subject{TenantID: "t"})
	assert.ErrorIs(t, err, ErrMissingUserID)
}

func TestValidateAccessToken_Success(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)

	require.NoError(t, err)
	assert.Equal(t, sub.TenantID, claims.TenantID)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, sub.Username, claims.Username)
	assert.Equal(t, "sales", claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, sub.UserID, claims.Subject)
}

func TestValidateAccessToken_ExpiredToken(t *testing.T) {
	cfg := sharedSecretConfig()
	cfg.AccessTokenExpiration = -1 * time.Hour
	svc := NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)

	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateAccessToken_InvalidToken(t *testing.T) {
	svc := newTestJWTService()

	_, err := svc.ValidateAccessToken("invalid-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_DifferentSecret(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	cfg := sharedSecretConfig()
	cfg.Secret = "another-secret-key-at-least-32-chars"
	other := NewJWTService(cfg)

	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateAccessToken_WrongIssuer(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	cfg := sharedSecretConfig()
	cfg.Issuer = "someone-else"
	other := NewJWTService(cfg)

	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongTokenType(t *testing.T) {
	svc := NewJWTService(sharedSecretConfig())

	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateRefreshToken_Success(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)

	require.NoError(t, err)
	assert.Equal(t, sub.TenantID, claims.TenantID)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.Equal(t, 0, claims.RefreshCount)
	assert.Empty(t, claims.Role)
}

func TestRefreshTokenPair_RotatesAndPicksUpRole(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	sub.Role = "accountant"
	next, old, err := svc.RefreshTokenPair(pair.RefreshToken, sub)

	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	assert.Equal(t, sub.UserID, old.UserID)

	claims, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "accountant", claims.Role)

	refreshClaims, err := svc.ValidateRefreshToken(next.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshClaims.RefreshCount)
	assert.NotEqual(t, old.ID, refreshClaims.ID)
}

func TestRefreshTokenPair_MaxRefreshExceeded(t *testing.T) {
	cfg := sharedSecretConfig()
	cfg.RefreshSecret = "test-refresh-secret-key-32-chars"
	cfg.MaxRefreshCount = 2
	svc := NewJWTService(cfg)
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	pair, _, err = svc.RefreshTokenPair(pair.RefreshToken, sub)
	require.NoError(t, err)
	pair, _, err = svc.RefreshTokenPair(pair.RefreshToken, sub)
	require.NoError(t, err)

	_, _, err = svc.RefreshTokenPair(pair.RefreshToken, sub)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestRefreshTokenPair_SubjectMismatch(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	other := sub
	other.UserID = shared.NewID()
	_, _, err = svc.RefreshTokenPair(pair.RefreshToken, other)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestRefreshTokenPair_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(sharedSecretConfig())
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	_, _, err = svc.RefreshTokenPair(pair.AccessToken, sub)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestClaims_RemainingTTL(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	ttl := claims.GetRemainingTTL()
	assert.Greater(t, ttl, 14*time.Minute)
	assert.LessOrEqual(t, ttl, 15*time.Minute)
	assert.False(t, claims.GetIssuedAtTime().IsZero())
	assert.Equal(t, time.Duration(0), (&Claims{}).GetRemainingTTL())
}

func TestClaims_Actor(t *testing.T) {
	svc := newTestJWTService()
	sub := newTestSubject()
	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.True(t, shared.IsValidID(claims.ID), "jti should be a ULID")

	actor := claims.Actor()
	assert.Equal(t, sub.TenantID, actor.TenantID)
	assert.Equal(t, sub.UserID, actor.UserID)
	assert.Equal(t, identity.RoleSales, actor.Role)
}
