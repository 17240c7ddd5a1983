package identity

import (
	"context"
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService(users *MockUserRepository, blacklist auth.TokenBlacklist) *UserService {
	return NewUserService(users, defaultAuthorizer(), blacklist, nil, time.Hour, zap.NewNop())
}

func TestUserService_Create(t *testing.T) {
	users := new(MockUserRepository)
	users.On("ExistsByUsername", mock.Anything, "t1", "mary").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.TenantID == "t1" && u.CreatedBy == "a1" && u.Role == identity.RoleAccountant
	})).Return(nil)
	svc := newUserService(users, auth.NewInMemoryTokenBlacklist())

	dto, err := svc.Create(actorCtx("t1", "a1", identity.RoleAdmin), CreateUserInput{
		Username: "mary", Password: testPassword, Email: "mary@acme.test", Role: "Accountant",
	})

	require.NoError(t, err)
	assert.Equal(t, "accountant", dto.Role)
	assert.Equal(t, "mary", dto.DisplayName)
	users.AssertExpectations(t)
}

func TestUserService_CreateRequiresAdmin(t *testing.T) {
	svc := newUserService(new(MockUserRepository), auth.NewInMemoryTokenBlacklist())

	_, err := svc.Create(actorCtx("t1", "s1", identity.RoleSales), CreateUserInput{
		Username: "mary", Password: testPassword, Role: "sales",
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUserService_CreateDuplicateUsername(t *testing.T) {
	users := new(MockUserRepository)
	users.On("ExistsByUsername", mock.Anything, "t1", "mary").Return(true, nil)
	svc := newUserService(users, auth.NewInMemoryTokenBlacklist())

	_, err := svc.Create(actorCtx("t1", "a1", identity.RoleAdmin), CreateUserInput{
		Username: "mary", Password: testPassword, Role: "sales",
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestUserService_List(t *testing.T) {
	users := new(MockUserRepository)
	u := newTestUser(t, "t1", identity.RoleSales)
	users.On("FindAll", mock.Anything, "t1", mock.MatchedBy(func(f identity.UserFilter) bool {
		return f.Role != nil && *f.Role == identity.RoleSales && f.PageSize == 20
	})).Return([]*identity.User{u}, int64(1), nil)
	svc := newUserService(users, auth.NewInMemoryTokenBlacklist())

	page, err := svc.List(actorCtx("t1", "a1", identity.RoleAdmin), UserListFilter{Role: "sales"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, u.ID, page.Items[0].ID)
}

func TestUserService_ChangeRole(t *testing.T) {
	users := new(MockUserRepository)
	u := newTestUser(t, "t1", identity.RoleSales)
	users.On("FindByID", mock.Anything, "t1", u.ID).Return(u, nil)
	users.On("Save", mock.Anything, u).Return(nil)
	svc := newUserService(users, auth.NewInMemoryTokenBlacklist())

	dto, err := svc.ChangeRole(actorCtx("t1", "a1", identity.RoleAdmin), u.ID, "guest")

	require.NoError(t, err)
	assert.Equal(t, "guest", dto.Role)
	assert.Empty(t, u.GetDomainEvents())
}

func TestUserService_CannotChangeOwnRole(t *testing.T) {
	svc := newUserService(new(MockUserRepository), auth.NewInMemoryTokenBlacklist())

	_, err := svc.ChangeRole(actorCtx("t1", "a1", identity.RoleAdmin), "a1", "guest")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Deactivate(actorCtx("t1", "a1", identity.RoleAdmin), "a1")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestUserService_DeactivateInvalidatesTokens(t *testing.T) {
	users := new(MockUserRepository)
	u := newTestUser(t, "t1", identity.RoleSales)
	users.On("FindByID", mock.Anything, "t1", u.ID).Return(u, nil)
	users.On("Save", mock.Anything, u).Return(nil)
	blacklist := auth.NewInMemoryTokenBlacklist()
	svc := newUserService(users, blacklist)

	dto, err := svc.Deactivate(actorCtx("t1", "a1", identity.RoleAdmin), u.ID)

	require.NoError(t, err)
	assert.Equal(t, "deactivated", dto.Status)
	invalidated, err := blacklist.IsUserTokenInvalidated(context.Background(), u.ID, time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, invalidated)
}

func TestUserService_UnlockRejectsUnlockedUser(t *testing.T) {
	users := new(MockUserRepository)
	u := newTestUser(t, "t1", identity.RoleSales)
	users.On("FindByID", mock.Anything, "t1", u.ID).Return(u, nil)
	svc := newUserService(users, auth.NewInMemoryTokenBlacklist())

	_, err := svc.Unlock(actorCtx("t1", "a1", identity.RoleAdmin), u.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTenantService_Update(t *testing.T) {
	tenants := new(MockTenantRepository)
	tenant := newTestTenant(t)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	tenants.On("Save", mock.Anything, tenant).Return(nil)
	svc := NewTenantService(tenants, defaultAuthorizer(), zap.NewNop())

	dto, err := svc.Update(actorCtx(tenant.ID, "a1", identity.RoleAdmin), UpdateTenantInput{
		Name: "Acme Holdings", ContactEmail: "ops@acme.test",
	})

	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", dto.Name)
	assert.Equal(t, "ops@acme.test", dto.ContactEmail)

	_, err = svc.Update(actorCtx(tenant.ID, "s1", identity.RoleSales), UpdateTenantInput{Name: "x"})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}
