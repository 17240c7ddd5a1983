package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfilingLabels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(JWTTenantIDKey, "T1")
		c.Next()
	}, ProfilingLabels())

	got := map[string]string{}
	r.GET("/api/v1/invoices/:id", func(c *gin.Context) {
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			got[key] = value
			return true
		})
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/invoices/01HINVOICEAAAAAAAAAAAAAAAA", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]string{
		"method":     "GET",
		"route":      "/api/v1/invoices/:id",
		"controller": "invoices",
		"tenant_id":  "T1",
	}, got)
}

func TestResourceFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/invoices/:id":         "invoices",
		"/api/v2/boq-items/:id/events": "boq-items",
		"/health":                      "health",
		"/api/v1":                      "",
		"":                             "",
	}
	for route, want := range tests {
		assert.Equal(t, want, resourceFromRoute(route), route)
	}
}
