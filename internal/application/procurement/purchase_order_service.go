package procurement

import (
	"context"
	"strings"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/procurement"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// PurchaseOrderService handles purchase order lifecycle operations
type PurchaseOrderService struct {
	orders procurement.PurchaseOrderRepository
	auth   *appidentity.Authorizer
	logger *zap.Logger
}

// NewPurchaseOrderService creates a new PurchaseOrderService
func NewPurchaseOrderService(orders procurement.PurchaseOrderRepository, authorizer *appidentity.Authorizer, logger *zap.Logger) *PurchaseOrderService {
	return &PurchaseOrderService{
		orders: orders,
		auth:   authorizer,
		logger: logger,
	}
}

// Create creates a draft purchase order owned by the actor
func (s *PurchaseOrderService) Create(ctx context.Context, input CreatePurchaseOrderInput) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "create", "supplier", input.Supplier)
	defer span.End()

	actor, _, err := s.auth.Check(ctx, identity.ResourcePurchaseOrder, identity.ActionCreate)
	if err != nil {
		return nil, err
	}

	generateNumber := func(ctx context.Context) (string, error) { return s.orders.GenerateNumber(ctx, actor.TenantID) }
	order, err := shared.CreateNumbered(ctx, generateNumber, func(number string) (*procurement.PurchaseOrder, error) {
		order, err := procurement.NewPurchaseOrder(actor.TenantID, actor.UserID, number, input.Supplier, toDomainLines(input.Lines))
		if err != nil {
			return nil, err
		}
		return order, s.orders.SaveWithLock(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Info("Purchase order created",
		zap.String("tenant_id", actor.TenantID),
		zap.String("order_id", order.ID),
		zap.String("number", order.Number),
		zap.String("total", order.Total.StringFixed(2)))

	dto := ToPurchaseOrderDTO(order)
	return &dto, nil
}

// List returns the orders visible to the actor
func (s *PurchaseOrderService) List(ctx context.Context, filter PurchaseOrderListFilter) (shared.Paginated[PurchaseOrderDTO], error) {
	actor, decision, err := s.auth.Check(ctx, identity.ResourcePurchaseOrder, identity.ActionRead)
	if err != nil {
		return shared.Paginated[PurchaseOrderDTO]{}, err
	}

	f := procurement.PurchaseOrderFilter{
		Filter:   filter.Filter.Normalize(),
		ViewerID: actor.UserID,
		OwnerID:  appidentity.ListOwner(actor, decision),
	}
	if filter.Status != "" {
		status := procurement.PurchaseOrderStatus(strings.ToUpper(strings.TrimSpace(filter.Status)))
		if !status.IsValid() {
			return shared.Paginated[PurchaseOrderDTO]{}, shared.NewDomainError(shared.ErrInvalidInput.Code, "Unknown purchase order status: "+filter.Status)
		}
		f.Status = &status
	}

	orders, total, err := s.orders.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return shared.Paginated[PurchaseOrderDTO]{}, err
	}
	items := lo.Map(orders, func(p *procurement.PurchaseOrder, _ int) PurchaseOrderDTO { return ToPurchaseOrderDTO(p) })
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns one purchase order
func (s *PurchaseOrderService) Get(ctx context.Context, id string) (*PurchaseOrderDTO, error) {
	order, _, err := s.load(ctx, id, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	dto := ToPurchaseOrderDTO(order)
	return &dto, nil
}

// Approve moves a draft to APPROVED and records the approver
func (s *PurchaseOrderService) Approve(ctx context.Context, id string) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "approve", "order_id", id)
	defer span.End()

	order, actor, err := s.load(ctx, id, identity.ActionApprove)
	if err != nil {
		return nil, err
	}
	if err := order.Approve(actor.UserID); err != nil {
		return nil, err
	}
	return s.save(ctx, order, "approved")
}

// Receive marks the goods of an approved order as received
func (s *PurchaseOrderService) Receive(ctx context.Context, id string) (*PurchaseOrderDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase_order", "receive", "order_id", id)
	defer span.End()

	order, _, err := s.load(ctx, id, identity.ActionReceive)
	if err != nil {
		return nil, err
	}
	if err := order.Receive(); err != nil {
		return nil, err
	}
	return s.save(ctx, order, "received")
}

// Cancel abandons a draft or approved order. It is checked as an update.
func (s *PurchaseOrderService) Cancel(ctx context.Context, id, reason string) (*PurchaseOrderDTO, error) {
	order, _, err := s.load(ctx, id, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(reason); err != nil {
		return nil, err
	}
	return s.save(ctx, order, "cancelled")
}

// Delete removes a draft order
func (s *PurchaseOrderService) Delete(ctx context.Context, id string) error {
	order, actor, err := s.load(ctx, id, identity.ActionDelete)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft purchase orders can be deleted")
	}
	if err := s.orders.Delete(ctx, actor.TenantID, order.ID); err != nil {
		return err
	}
	s.logger.Info("Purchase order deleted",
		zap.String("tenant_id", actor.TenantID),
		zap.String("order_id", order.ID))
	return nil
}

func (s *PurchaseOrderService) load(ctx context.Context, id, action string) (*procurement.PurchaseOrder, identity.Actor, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourcePurchaseOrder, action)
	if err != nil {
		return nil, actor, err
	}
	order, err := s.orders.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, actor, err
	}
	if !order.IsVisibleTo(actor.UserID) {
		return nil, actor, shared.ErrNotFound
	}
	if err := s.auth.CheckRecord(ctx, actor, identity.ResourcePurchaseOrder, action, order.CreatedBy); err != nil {
		return nil, actor, err
	}
	return order, actor, nil
}

func (s *PurchaseOrderService) save(ctx context.Context, order *procurement.PurchaseOrder, transition string) (*PurchaseOrderDTO, error) {
	if err := s.orders.SaveWithLock(ctx, order); err != nil {
		return nil, err
	}
	s.logger.Info("Purchase order "+transition,
		zap.String("tenant_id", order.TenantID),
		zap.String("order_id", order.ID),
		zap.Int("version", order.Version))
	dto := ToPurchaseOrderDTO(order)
	return &dto, nil
}
