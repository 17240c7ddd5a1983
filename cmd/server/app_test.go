package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/gamification"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Name: "erp-suite-test", Env: "test", Port: "0"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", MaxIdleConns: 1},
		JWT: config.JWTConfig{
			Secret:                 "test-access-secret-with-enough-length",
			RefreshSecret:          "test-refresh-secret-with-enough-length",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
			Issuer:                 "erp-suite-test",
			MaxRefreshCount:        5,
		},
		HTTP: config.HTTPConfig{MaxBodySize: 1 << 20},
		RBAC: config.RBACConfig{CacheTTL: time.Minute},
		Auth: config.AuthConfig{MaxLoginAttempts: 5, LockoutDuration: time.Minute},
	}
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func (c *apiClient) do(method, path, token string, body any) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.engine.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func (c *apiClient) data(env envelope, out any) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(env.Data, out))
}

type authResult struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"tokens"`
}

func (c *apiClient) register(tenantCode string) authResult {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"tenant_code": tenantCode,
		"tenant_name": tenantCode + " Ltd",
		"username":    "admin",
		"password":    "admin-pass-123",
	})
	require.Equal(c.t, http.StatusCreated, status)
	var res authResult
	c.data(env, &res)
	require.NotEmpty(c.t, res.Tokens.AccessToken)
	return res
}

func (c *apiClient) login(tenantCode, username, password string) authResult {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"tenant_code": tenantCode,
		"username":    username,
		"password":    password,
	})
	require.Equal(c.t, http.StatusOK, status)
	var res authResult
	c.data(env, &res)
	return res
}

func newTestApp(t *testing.T) *apiClient {
	t.Helper()
	app, err := buildApp(context.Background(), testConfig(), zap.NewNop(), noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })
	return &apiClient{t: t, engine: app.Engine}
}

func TestApp_Health(t *testing.T) {
	c := newTestApp(t)

	status, env := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestApp_RequiresToken(t *testing.T) {
	c := newTestApp(t)

	status, env := c.do(http.MethodGet, "/api/v1/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_UNAUTHORIZED", env.Error.Code)
}

func TestApp_InvoiceLifecycleAwardsPoints(t *testing.T) {
	c := newTestApp(t)
	admin := c.register("acme")
	token := admin.Tokens.AccessToken

	status, env := c.do(http.MethodPost, "/api/v1/customers", token, map[string]string{"name": "Globex"})
	require.Equal(t, http.StatusCreated, status)
	var customer struct {
		ID string `json:"id"`
	}
	c.data(env, &customer)

	status, env = c.do(http.MethodPost, "/api/v1/invoices", token, map[string]any{
		"customer_id": customer.ID,
		"currency":    "GBP",
		"lines": []map[string]string{
			{"description": "Site survey", "quantity": "2", "unit_price": "150.00"},
		},
	})
	require.Equal(t, http.StatusCreated, status)
	var invoice struct {
		ID     string          `json:"id"`
		Status string          `json:"status"`
		Total  decimal.Decimal `json:"total"`
	}
	c.data(env, &invoice)
	assert.Equal(t, "DRAFT", invoice.Status)

	status, env = c.do(http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/pay", token, map[string]string{"amount": invoice.Total.String()})
	assert.Equal(t, http.StatusUnprocessableEntity, status, "draft invoices cannot be paid")

	status, _ = c.do(http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/send", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, env = c.do(http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/pay", token, map[string]string{"amount": "1.00"})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_INVALID_AMOUNT", env.Error.Code)

	status, env = c.do(http.MethodPost, "/api/v1/invoices/"+invoice.ID+"/pay", token, map[string]string{"amount": invoice.Total.String()})
	require.Equal(t, http.StatusOK, status)
	c.data(env, &invoice)
	assert.Equal(t, "PAID", invoice.Status)

	status, env = c.do(http.MethodGet, "/api/v1/points/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		UserID string `json:"user_id"`
		Total  int64  `json:"total"`
	}
	c.data(env, &summary)
	assert.Equal(t, admin.User.ID, summary.UserID)
	assert.Equal(t, int64(gamification.PointsForInvoice(invoice.Total)), summary.Total)
}

func TestApp_GuestIsReadOnly(t *testing.T) {
	c := newTestApp(t)
	admin := c.register("acme")

	status, _ := c.do(http.MethodPost, "/api/v1/users", admin.Tokens.AccessToken, map[string]string{
		"username": "viewer",
		"password": "viewer-pass-123",
		"role":     "guest",
	})
	require.Equal(t, http.StatusCreated, status)
	guest := c.login("acme", "viewer", "viewer-pass-123")

	status, _ = c.do(http.MethodGet, "/api/v1/customers", guest.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env := c.do(http.MethodPost, "/api/v1/customers", guest.Tokens.AccessToken, map[string]string{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_FORBIDDEN", env.Error.Code)

	status, _ = c.do(http.MethodGet, "/api/v1/employees", guest.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = c.do(http.MethodGet, "/api/v1/users", guest.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestApp_TenantsAreIsolated(t *testing.T) {
	c := newTestApp(t)
	acme := c.register("acme")
	globex := c.register("globex")

	status, env := c.do(http.MethodPost, "/api/v1/customers", acme.Tokens.AccessToken, map[string]string{"name": "Initech"})
	require.Equal(t, http.StatusCreated, status)
	var customer struct {
		ID string `json:"id"`
	}
	c.data(env, &customer)

	status, _ = c.do(http.MethodGet, "/api/v1/customers/"+customer.ID, globex.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, env = c.do(http.MethodGet, "/api/v1/customers", globex.Tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	var customers []struct {
		ID string `json:"id"`
	}
	c.data(env, &customers)
	assert.Empty(t, customers)
}

func TestApp_LogoutRevokesAccessToken(t *testing.T) {
	c := newTestApp(t)
	admin := c.register("acme")

	status, _ := c.do(http.MethodPost, "/api/v1/auth/logout", admin.Tokens.AccessToken, map[string]string{
		"refresh_token": admin.Tokens.RefreshToken,
	})
	require.Equal(t, http.StatusNoContent, status)

	status, env := c.do(http.MethodGet, "/api/v1/auth/me", admin.Tokens.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ERR_TOKEN_REVOKED", env.Error.Code)

	status, _ = c.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": admin.Tokens.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}
