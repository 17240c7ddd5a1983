package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/infrastructure/auth"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/erp/suite/internal/infrastructure/logger"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func issue(t *testing.T, svc *auth.JWTService, role identity.RoleCode) *auth.TokenPair {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.Subject{
		TenantID: "01HTENANTAAAAAAAAAAAAAAAAA",
		UserID:   "01HUSERAAAAAAAAAAAAAAAAAAA",
		Username: "alice",
		Role:     string(role),
	})
	require.NoError(t, err)
	return pair
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func protectedRouter(cfg JWTMiddlewareConfig, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/things", handler)
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestJWTAuthMiddleware_InstallsActor(t *testing.T) {
	svc := newTestJWTService()
	pair := issue(t, svc, identity.RoleSales)

	var actor identity.Actor
	var tenantOnCtx string
	router := protectedRouter(DefaultJWTConfig(svc), func(c *gin.Context) {
		var err error
		actor, err = identity.ActorFromContext(c.Request.Context())
		require.NoError(t, err)
		tenantOnCtx = logger.GetTenantID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, identity.RoleSales, actor.Role)
	assert.Equal(t, "alice", actor.Username)
	assert.Equal(t, "01HTENANTAAAAAAAAAAAAAAAAA", tenantOnCtx)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair := issue(t, svc, identity.RoleSales)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"garbage token", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", BearerPrefix + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}

	router := protectedRouter(DefaultJWTConfig(svc), func(c *gin.Context) { c.Status(http.StatusOK) })
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			resp := decode(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	router := protectedRouter(DefaultJWTConfig(newTestJWTService()), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := protectedRouter(cfg, func(c *gin.Context) { c.Status(http.StatusOK) })

	pair := issue(t, svc, identity.RoleAdmin)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, decode(t, rec).Error.Code)
}
