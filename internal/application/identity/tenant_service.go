package identity

import (
	"context"

	"github.com/erp/suite/internal/domain/identity"
	"go.uber.org/zap"
)

// TenantService exposes the actor's own tenant
type TenantService struct {
	tenants identity.TenantRepository
	auth    *Authorizer
	logger  *zap.Logger
}

// NewTenantService creates a new tenant service
func NewTenantService(tenants identity.TenantRepository, authorizer *Authorizer, logger *zap.Logger) *TenantService {
	return &TenantService{
		tenants: tenants,
		auth:    authorizer,
		logger:  logger,
	}
}

// Get returns the actor's tenant
func (s *TenantService) Get(ctx context.Context) (*TenantDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceTenant, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	dto := ToTenantDTO(tenant)
	return &dto, nil
}

// Update renames the tenant and sets its contact email
func (s *TenantService) Update(ctx context.Context, input UpdateTenantInput) (*TenantDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceTenant, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if err := tenant.Rename(input.Name); err != nil {
		return nil, err
	}
	if err := tenant.SetContactEmail(input.ContactEmail); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant updated", zap.String("tenant_id", tenant.ID), zap.String("by", actor.UserID))
	dto := ToTenantDTO(tenant)
	return &dto, nil
}
