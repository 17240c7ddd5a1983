package middleware

import (
	"context"
	"strings"

	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingLabels tags the request's CPU samples with the route pattern,
// method, resource and tenant for Pyroscope. It must run after the JWT
// middleware so the tenant is known.
func ProfilingLabels() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelController: resourceFromRoute(route),
			telemetry.ProfilingLabelTenantID:   GetJWTTenantID(c),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute is the first path segment after /api/vN,
// e.g. /api/v1/invoices/:id -> invoices
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		switch {
		case part == "", part == "api", isVersionSegment(part), strings.HasPrefix(part, ":"):
			continue
		}
		return part
	}
	return ""
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
