package identity

import (
	"context"
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPermissionService_PolicyForIsCached(t *testing.T) {
	repo := new(MockOverrideRepository)
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{}, nil).Once()
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())

	p1, err := svc.PolicyFor(context.Background(), "t1")
	require.NoError(t, err)
	p2, err := svc.PolicyFor(context.Background(), "t1")
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	repo.AssertExpectations(t)
}

func TestPermissionService_PolicyForRequiresTenant(t *testing.T) {
	svc := NewPermissionService(new(MockOverrideRepository), 0, zap.NewNop())

	_, err := svc.PolicyFor(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrTenantRequired)
}

func TestPermissionService_OverrideAppliesToPolicy(t *testing.T) {
	override, err := identity.NewPermissionOverride("t1", "a1", identity.RoleGuest,
		identity.ResourceCustomer, identity.ActionRead, identity.Deny())
	require.NoError(t, err)

	repo := new(MockOverrideRepository)
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{override}, nil)
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())

	codes, err := svc.PermissionsFor(context.Background(), "t1", identity.RoleGuest)
	require.NoError(t, err)
	assert.NotContains(t, codes, "customer:read")
	assert.Contains(t, codes, "invoice:read")
}

func TestPermissionService_SetOverride(t *testing.T) {
	repo := new(MockOverrideRepository)
	key := identity.PermissionKey{Role: identity.RoleSales, Resource: identity.ResourceInvoice, Action: identity.ActionPay}
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{}, nil)
	repo.On("Find", mock.Anything, "t1", key).Return(nil, shared.ErrNotFound)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(o *identity.PermissionOverride) bool {
		return o.Key() == key && o.Allowed && o.Scope == identity.ScopeOwn && o.CreatedBy == "a1"
	})).Return(nil)
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())
	ctx := actorCtx("t1", "a1", identity.RoleAdmin)

	entry, err := svc.SetOverride(ctx, SetOverrideInput{
		Role: "sales", Resource: identity.ResourceInvoice, Action: identity.ActionPay,
		Allowed: true, Scope: "own",
	})

	require.NoError(t, err)
	assert.Equal(t, identity.RoleSales, entry.Role)
	assert.Equal(t, identity.Allow(identity.ScopeOwn), entry.Grant)
	repo.AssertExpectations(t)
}

func TestPermissionService_SetOverrideReplacesExisting(t *testing.T) {
	existing, err := identity.NewPermissionOverride("t1", "a1", identity.RoleSales,
		identity.ResourceInvoice, identity.ActionPay, identity.Allow(identity.ScopeOwn))
	require.NoError(t, err)

	repo := new(MockOverrideRepository)
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{}, nil)
	repo.On("Find", mock.Anything, "t1", existing.Key()).Return(existing, nil)
	repo.On("Save", mock.Anything, existing).Return(nil)
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())

	entry, err := svc.SetOverride(actorCtx("t1", "a1", identity.RoleAdmin), SetOverrideInput{
		Role: "sales", Resource: identity.ResourceInvoice, Action: identity.ActionPay, Allowed: false,
	})

	require.NoError(t, err)
	assert.False(t, entry.Grant.Allowed)
	assert.False(t, existing.Allowed)
}

func TestPermissionService_SetOverrideRejectsAdmin(t *testing.T) {
	repo := new(MockOverrideRepository)
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{}, nil)
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())

	_, err := svc.SetOverride(actorCtx("t1", "a1", identity.RoleAdmin), SetOverrideInput{
		Role: "admin", Resource: identity.ResourceInvoice, Action: identity.ActionPay,
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPermissionService_NonAdminCannotManage(t *testing.T) {
	repo := new(MockOverrideRepository)
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{}, nil)
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())
	ctx := actorCtx("t1", "s1", identity.RoleSales)

	_, err := svc.Matrix(ctx)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	err = svc.DeleteOverride(ctx, DeleteOverrideInput{Role: "guest", Resource: "customer", Action: "read"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestPermissionService_DeleteOverrideInvalidatesCache(t *testing.T) {
	repo := new(MockOverrideRepository)
	key := identity.PermissionKey{Role: identity.RoleGuest, Resource: "customer", Action: "read"}
	repo.On("FindAll", mock.Anything, "t1").Return([]*identity.PermissionOverride{}, nil).Twice()
	repo.On("Delete", mock.Anything, "t1", key).Return(nil)
	svc := NewPermissionService(repo, time.Minute, zap.NewNop())
	ctx := actorCtx("t1", "a1", identity.RoleAdmin)

	require.NoError(t, svc.DeleteOverride(ctx, DeleteOverrideInput{Role: "guest", Resource: "customer", Action: "read"}))
	_, err := svc.Matrix(ctx)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}
