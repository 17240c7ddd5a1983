package procurement

import (
	"context"
	"testing"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/procurement"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*procurement.PurchaseOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*procurement.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAll(ctx context.Context, tenantID string, filter procurement.PurchaseOrderFilter) ([]*procurement.PurchaseOrder, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*procurement.PurchaseOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockPurchaseOrderRepository) SaveWithLock(ctx context.Context, order *procurement.PurchaseOrder) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockPurchaseOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPurchaseOrderRepository) GenerateNumber(ctx context.Context, tenantID string) (string, error) {
	args := m.Called(ctx, tenantID)
	return args.String(0), args.Error(1)
}

func newService() (*PurchaseOrderService, *MockPurchaseOrderRepository) {
	repo := new(MockPurchaseOrderRepository)
	authorizer := appidentity.NewAuthorizer(appidentity.StaticPolicy{Policy: identity.DefaultPolicy()})
	return NewPurchaseOrderService(repo, authorizer, zap.NewNop()), repo
}

func as(role identity.RoleCode, userID string) context.Context {
	return identity.WithActor(context.Background(), identity.Actor{TenantID: "T1", UserID: userID, Role: role})
}

func draftOrder(t *testing.T, owner string) *procurement.PurchaseOrder {
	t.Helper()
	po, err := procurement.NewPurchaseOrder("T1", owner, "PO-202601-00001", "Steel Co", []procurement.PurchaseOrderLine{
		{Description: "Rebar", Quantity: decimal.NewFromInt(10), UnitCost: decimal.RequireFromString("12.5")},
	})
	require.NoError(t, err)
	return po
}

func TestPurchaseOrderService_Create(t *testing.T) {
	svc, repo := newService()
	repo.On("GenerateNumber", mock.Anything, "T1").Return("PO-202601-00007", nil)
	repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*procurement.PurchaseOrder")).Return(nil)

	dto, err := svc.Create(as(identity.RoleAccountant, "X1"), CreatePurchaseOrderInput{
		Supplier: "Steel Co",
		Lines: []PurchaseOrderLineInput{
			{Description: "Rebar", Quantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(25)},
			{Description: "Wire", Quantity: decimal.NewFromInt(1), UnitCost: decimal.RequireFromString("9.99")},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "PO-202601-00007", dto.Number)
	assert.Equal(t, "DRAFT", dto.Status)
	assert.Equal(t, "X1", dto.CreatedBy)
	assert.Equal(t, "109.99", dto.Total.StringFixed(2))
	assert.Len(t, dto.Lines, 2)
}

func TestPurchaseOrderService_CreateRejectsEmptyOrder(t *testing.T) {
	svc, repo := newService()
	repo.On("GenerateNumber", mock.Anything, "T1").Return("PO-202601-00008", nil)

	_, err := svc.Create(as(identity.RoleAccountant, "X1"), CreatePurchaseOrderInput{Supplier: "Steel Co"})

	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "EMPTY_ORDER", de.Code)
	repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_SalesHasNoAccess(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Create(as(identity.RoleSales, "S1"), CreatePurchaseOrderInput{Supplier: "Steel Co"})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.List(as(identity.RoleGuest, "G1"), PurchaseOrderListFilter{})
	assert.ErrorIs(t, err, shared.ErrForbidden)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_DraftsAreOwnerOnly(t *testing.T) {
	svc, repo := newService()
	po := draftOrder(t, "X1")
	repo.On("FindByID", mock.Anything, "T1", po.ID).Return(po, nil)

	_, err := svc.Get(as(identity.RoleAccountant, "X1"), po.ID)
	require.NoError(t, err)

	_, err = svc.Get(as(identity.RoleAdmin, "A1"), po.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.Approve(as(identity.RoleAccountant, "X2"), po.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPurchaseOrderService_List(t *testing.T) {
	svc, repo := newService()
	repo.On("FindAll", mock.Anything, "T1", mock.MatchedBy(func(f procurement.PurchaseOrderFilter) bool {
		return f.ViewerID == "X1" && f.OwnerID == "" && f.Status != nil &&
			*f.Status == procurement.PurchaseOrderStatusApproved && f.PageSize == 20
	})).Return([]*procurement.PurchaseOrder{}, int64(0), nil)

	page, err := svc.List(as(identity.RoleAccountant, "X1"), PurchaseOrderListFilter{Status: "approved"})
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	_, err = svc.List(as(identity.RoleAccountant, "X1"), PurchaseOrderListFilter{Status: "shipped"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	repo.AssertExpectations(t)
}

func TestPurchaseOrderService_Lifecycle(t *testing.T) {
	svc, repo := newService()
	po := draftOrder(t, "X1")
	repo.On("FindByID", mock.Anything, "T1", po.ID).Return(po, nil)
	repo.On("SaveWithLock", mock.Anything, po).Return(nil)

	dto, err := svc.Approve(as(identity.RoleAccountant, "X1"), po.ID)
	require.NoError(t, err)
	assert.Equal(t, "APPROVED", dto.Status)
	assert.Equal(t, "X1", dto.ApprovedBy)

	// approve and receive are granted on every record
	dto, err = svc.Receive(as(identity.RoleAccountant, "X2"), po.ID)
	require.NoError(t, err)
	assert.Equal(t, "RECEIVED", dto.Status)

	_, err = svc.Cancel(as(identity.RoleAccountant, "X1"), po.ID, "too late")
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	err = svc.Delete(as(identity.RoleAccountant, "X1"), po.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_CancelOwnScope(t *testing.T) {
	svc, repo := newService()
	po := draftOrder(t, "X1")
	require.NoError(t, po.Approve("X1"))
	repo.On("FindByID", mock.Anything, "T1", po.ID).Return(po, nil)
	repo.On("SaveWithLock", mock.Anything, po).Return(nil)

	_, err := svc.Cancel(as(identity.RoleAccountant, "X2"), po.ID, "duplicate")
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Cancel(as(identity.RoleAccountant, "X1"), po.ID, " ")
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_REASON", de.Code)

	dto, err := svc.Cancel(as(identity.RoleAccountant, "X1"), po.ID, "duplicate")
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", dto.Status)
	assert.Equal(t, "duplicate", dto.CancelReason)
}

func TestPurchaseOrderService_DeleteDraft(t *testing.T) {
	svc, repo := newService()
	po := draftOrder(t, "X1")
	repo.On("FindByID", mock.Anything, "T1", po.ID).Return(po, nil)
	repo.On("Delete", mock.Anything, "T1", po.ID).Return(nil)

	require.NoError(t, svc.Delete(as(identity.RoleAccountant, "X1"), po.ID))
	repo.AssertExpectations(t)
}

func TestPurchaseOrderService_CrossTenantIsNotFound(t *testing.T) {
	svc, repo := newService()
	repo.On("FindByID", mock.Anything, "T1", "other").Return(nil, shared.ErrNotFound)

	_, err := svc.Get(as(identity.RoleAdmin, "A1"), "other")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
