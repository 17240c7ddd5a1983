package middleware

import (
	"net/http"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireResource rejects requests whose role holds no grant at all on
// resource. The specific action and the record owner are checked by the
// application service.
func RequireResource(authorizer *appidentity.Authorizer, resource string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		actor, err := identity.ActorFromContext(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized, "Authentication required", GetRequestID(c)))
			return
		}

		ok, err := authorizer.HasAnyAction(c.Request.Context(), actor.TenantID, actor.Role, resource)
		if err != nil {
			logger.Error("Failed to load tenant policy",
				zap.String("tenant_id", actor.TenantID),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "An unexpected error occurred", GetRequestID(c)))
			return
		}
		if !ok {
			logger.Debug("Permission denied",
				zap.String("user_id", actor.UserID),
				zap.String("role", string(actor.Role)),
				zap.String("resource", resource),
				zap.String("action", MethodToAction(c.Request.Method)))
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeForbidden, "Permission denied: no access to "+resource, GetRequestID(c)))
			return
		}

		c.Next()
	}
}

// MethodToAction maps an HTTP method to the CRUD action it implies
func MethodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return identity.ActionRead
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	}
	return identity.ActionRead
}
