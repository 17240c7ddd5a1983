package projects

import (
	"context"
	"testing"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/projects"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockBOQItemRepository struct {
	mock.Mock
}

func (m *MockBOQItemRepository) FindByID(ctx context.Context, tenantID, id string) (*projects.BOQItem, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*projects.BOQItem), args.Error(1)
}

func (m *MockBOQItemRepository) FindAll(ctx context.Context, tenantID string, filter projects.BOQItemFilter) ([]*projects.BOQItem, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*projects.BOQItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockBOQItemRepository) ExistsByCode(ctx context.Context, tenantID, projectCode, code string) (bool, error) {
	args := m.Called(ctx, tenantID, projectCode, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBOQItemRepository) Save(ctx context.Context, item *projects.BOQItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *MockBOQItemRepository) Delete(ctx context.Context, tenantID, id string) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type capturePublisher struct {
	events []shared.DomainEvent
}

func (p *capturePublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func as(role identity.RoleCode, userID string) context.Context {
	return identity.WithActor(context.Background(), identity.Actor{TenantID: "T1", UserID: userID, Role: role})
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr(d decimal.Decimal) *decimal.Decimal { return &d }

func newBOQService(repo *MockBOQItemRepository) (*BOQService, *capturePublisher) {
	pub := &capturePublisher{}
	authz := appidentity.NewAuthorizer(appidentity.StaticPolicy{Policy: identity.DefaultPolicy()})
	return NewBOQService(repo, authz, pub, nil, zap.NewNop()), pub
}

func newItem(t *testing.T, owner string) *projects.BOQItem {
	t.Helper()
	item, err := projects.NewBOQItem("T1", owner, "PRJ-1", "1.1", "Excavation", "m3", dec("120"), dec("15.50"))
	require.NoError(t, err)
	return item
}

func TestBOQService_Create(t *testing.T) {
	repo := new(MockBOQItemRepository)
	repo.On("ExistsByCode", mock.Anything, "T1", "PRJ-1", "1.1").Return(false, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*projects.BOQItem")).Return(nil)
	svc, _ := newBOQService(repo)

	dto, err := svc.Create(as(identity.RoleSales, "S1"), CreateBOQItemInput{
		ProjectCode: "prj-1", Code: "1.1", Description: "Excavation", Unit: "m3",
		Quantity: dec("120"), UnitRate: dec("15.50"),
	})

	require.NoError(t, err)
	assert.True(t, dto.Amount.Equal(dec("1860")))
	assert.True(t, dto.Progress.IsZero())
	assert.False(t, dto.Completed)
}

func TestBOQService_CreateDuplicateCode(t *testing.T) {
	repo := new(MockBOQItemRepository)
	repo.On("ExistsByCode", mock.Anything, "T1", "PRJ-1", "1.1").Return(true, nil)
	svc, _ := newBOQService(repo)

	_, err := svc.Create(as(identity.RoleAdmin, "A1"), CreateBOQItemInput{
		ProjectCode: "PRJ-1", Code: "1.1", Description: "Excavation", Quantity: dec("1"), UnitRate: dec("1"),
	})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestBOQService_ProgressCapsAndCompletesOnce(t *testing.T) {
	repo := new(MockBOQItemRepository)
	item := newItem(t, "S1")
	repo.On("FindByID", mock.Anything, "T1", item.ID).Return(item, nil)
	repo.On("Save", mock.Anything, item).Return(nil)
	svc, pub := newBOQService(repo)
	ctx := as(identity.RoleSales, "S1")

	dto, err := svc.Progress(ctx, item.ID, ProgressInput{Delta: ptr(dec("60"))})
	require.NoError(t, err)
	assert.True(t, dto.Progress.Equal(dec("60")))
	assert.True(t, dto.EarnedValue.Equal(dec("1116")))

	dto, err = svc.Progress(ctx, item.ID, ProgressInput{Delta: ptr(dec("55.5"))})
	require.NoError(t, err)
	assert.True(t, dto.Progress.Equal(dec("100")))
	assert.True(t, dto.Completed)
	require.Len(t, pub.events, 1)
	assert.Equal(t, projects.EventTypeBOQItemCompleted, pub.events[0].EventType())

	// setting 100 again completes nothing new
	_, err = svc.Progress(ctx, item.ID, ProgressInput{Percent: ptr(dec("150"))})
	require.NoError(t, err)
	assert.Len(t, pub.events, 1)
}

func TestBOQService_ProgressValidation(t *testing.T) {
	repo := new(MockBOQItemRepository)
	item := newItem(t, "S1")
	repo.On("FindByID", mock.Anything, "T1", item.ID).Return(item, nil)
	svc, _ := newBOQService(repo)
	ctx := as(identity.RoleSales, "S1")

	var de *shared.DomainError
	_, err := svc.Progress(ctx, item.ID, ProgressInput{})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PROGRESS", de.Code)

	_, err = svc.Progress(ctx, item.ID, ProgressInput{Percent: ptr(dec("-1"))})
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "INVALID_PROGRESS", de.Code)

	_, err = svc.Progress(as(identity.RoleSales, "S2"), item.ID, ProgressInput{Percent: ptr(dec("10"))})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Progress(as(identity.RoleAccountant, "X1"), item.ID, ProgressInput{Percent: ptr(dec("10"))})
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestBOQService_UpdateFrozenWhenComplete(t *testing.T) {
	repo := new(MockBOQItemRepository)
	item := newItem(t, "S1")
	require.NoError(t, item.SetProgress(dec("100")))
	item.ClearDomainEvents()
	repo.On("FindByID", mock.Anything, "T1", item.ID).Return(item, nil)
	svc, _ := newBOQService(repo)

	_, err := svc.Update(as(identity.RoleSales, "S1"), item.ID, UpdateBOQItemInput{
		Description: "Excavation", Unit: "m3", Quantity: dec("130"), UnitRate: dec("15.50"),
	})
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestBOQService_ListOwnScope(t *testing.T) {
	repo := new(MockBOQItemRepository)
	done := true
	repo.On("FindAll", mock.Anything, "T1", mock.MatchedBy(func(f projects.BOQItemFilter) bool {
		return f.ProjectCode == "PRJ-1" && f.Completed != nil && *f.Completed && f.OwnerID == ""
	})).Return([]*projects.BOQItem{newItem(t, "S1")}, int64(1), nil)
	svc, _ := newBOQService(repo)

	page, err := svc.List(as(identity.RoleGuest, "G1"), BOQItemListFilter{ProjectCode: "PRJ-1", Completed: &done})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}
