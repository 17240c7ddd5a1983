package identity

import (
	"context"
	"testing"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Admin(t *testing.T) {
	p := DefaultPolicy()
	for _, resource := range Resources() {
		for _, action := range ActionsFor(resource) {
			d := p.Decide(RoleAdmin, resource, action, false)
			assert.True(t, d.Allowed, "%s:%s", resource, action)
			assert.Equal(t, ScopeAll, d.Scope)
		}
	}
}

func TestDefaultPolicy_Matrix(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name     string
		role     RoleCode
		resource string
		action   string
		owner    bool
		allowed  bool
	}{
		{"sales creates invoice", RoleSales, ResourceInvoice, ActionCreate, true, true},
		{"sales reads any customer", RoleSales, ResourceCustomer, ActionRead, false, true},
		{"sales updates own customer", RoleSales, ResourceCustomer, ActionUpdate, true, true},
		{"sales cannot update others' customer", RoleSales, ResourceCustomer, ActionUpdate, false, false},
		{"sales cannot delete others' invoice", RoleSales, ResourceInvoice, ActionDelete, false, false},
		{"sales sends own invoice", RoleSales, ResourceInvoice, ActionSend, true, true},
		{"sales cannot pay invoice", RoleSales, ResourceInvoice, ActionPay, true, false},
		{"sales cannot touch purchase orders", RoleSales, ResourcePurchaseOrder, ActionRead, true, false},
		{"sales cannot manage users", RoleSales, ResourceUser, ActionCreate, true, false},
		{"accountant pays any invoice", RoleAccountant, ResourceInvoice, ActionPay, false, true},
		{"accountant sends any invoice", RoleAccountant, ResourceInvoice, ActionSend, false, true},
		{"accountant cannot delete invoices", RoleAccountant, ResourceInvoice, ActionDelete, true, false},
		{"accountant cannot create customers", RoleAccountant, ResourceCustomer, ActionCreate, true, false},
		{"accountant approves purchase orders", RoleAccountant, ResourcePurchaseOrder, ActionApprove, false, true},
		{"guest reads invoices", RoleGuest, ResourceInvoice, ActionRead, false, true},
		{"guest cannot create invoices", RoleGuest, ResourceInvoice, ActionCreate, true, false},
		{"guest cannot update own customer", RoleGuest, ResourceCustomer, ActionUpdate, true, false},
		{"guest cannot read employees", RoleGuest, ResourceEmployee, ActionRead, true, false},
		{"unknown action denied", RoleAdmin, ResourceInvoice, "archive", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := p.Decide(tt.role, tt.resource, tt.action, tt.owner)
			assert.Equal(t, tt.allowed, d.Allowed)
			if !tt.allowed {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

func TestPolicy_HasAnyAction(t *testing.T) {
	p := DefaultPolicy()
	assert.True(t, p.HasAnyAction(RoleGuest, ResourceInvoice))
	assert.False(t, p.HasAnyAction(RoleGuest, ResourceEmployee))
	assert.False(t, p.HasAnyAction(RoleSales, ResourcePermission))
}

func TestPolicy_PermissionCodes(t *testing.T) {
	codes := DefaultPolicy().PermissionCodes(RoleGuest)
	assert.Equal(t, []string{"boq_item:read", "customer:read", "invoice:read", "points:read"}, codes)
}

func TestPolicy_WithOverrides(t *testing.T) {
	base := DefaultPolicy()

	grantAll, err := NewPermissionOverride("t1", "u1", RoleSales, ResourceCustomer, ActionUpdate, Allow(ScopeAll))
	require.NoError(t, err)
	revoke, err := NewPermissionOverride("t1", "u1", RoleGuest, ResourceInvoice, ActionRead, Deny())
	require.NoError(t, err)

	p := base.WithOverrides([]*PermissionOverride{grantAll, revoke, nil})

	assert.True(t, p.Decide(RoleSales, ResourceCustomer, ActionUpdate, false).Allowed)
	assert.False(t, p.Decide(RoleGuest, ResourceInvoice, ActionRead, true).Allowed)

	// base policy is untouched
	assert.False(t, base.Decide(RoleSales, ResourceCustomer, ActionUpdate, false).Allowed)
	assert.True(t, base.Decide(RoleGuest, ResourceInvoice, ActionRead, true).Allowed)
}

func TestNewPermissionOverride(t *testing.T) {
	t.Run("admin cannot be overridden", func(t *testing.T) {
		_, err := NewPermissionOverride("t1", "u1", RoleAdmin, ResourceInvoice, ActionRead, Deny())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Admin")
	})

	t.Run("unknown permission", func(t *testing.T) {
		_, err := NewPermissionOverride("t1", "u1", RoleSales, ResourceInvoice, "archive", Allow(ScopeAll))
		require.Error(t, err)
	})

	t.Run("allowed grant needs a scope", func(t *testing.T) {
		_, err := NewPermissionOverride("t1", "u1", RoleSales, ResourceInvoice, ActionPay, Grant{Allowed: true})
		require.Error(t, err)
	})

	t.Run("deny clears scope", func(t *testing.T) {
		o, err := NewPermissionOverride("t1", "u1", RoleSales, ResourceInvoice, ActionRead, Grant{Allowed: false, Scope: ScopeAll})
		require.NoError(t, err)
		assert.Equal(t, ScopeNone, o.Scope)
		assert.Equal(t, "invoice:read", o.Key().Code())
	})
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Sales ")
	require.NoError(t, err)
	assert.Equal(t, RoleSales, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)
}

func TestActorFromContext(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	ctx := WithActor(context.Background(), Actor{UserID: "u1"})
	_, err = ActorFromContext(ctx)
	assert.ErrorIs(t, err, shared.ErrTenantRequired)

	ctx = WithActor(context.Background(), Actor{TenantID: "t1", UserID: "u1", Role: RoleSales})
	a, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.True(t, a.Owns("u1"))
	assert.False(t, a.Owns(""))
	assert.False(t, a.IsAdmin())
}

func TestMatrix_IsStable(t *testing.T) {
	m1 := DefaultPolicy().Matrix()
	m2 := DefaultPolicy().Matrix()
	require.Equal(t, m1, m2)
	assert.Equal(t, RoleAdmin, m1[0].Role)
}
