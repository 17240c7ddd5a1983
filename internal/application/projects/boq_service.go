package projects

import (
	"context"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/projects"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// BOQService manages bill-of-quantities items and their delivery progress
type BOQService struct {
	items   projects.BOQItemRepository
	auth    *appidentity.Authorizer
	events  shared.EventPublisher
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewBOQService creates a new BOQService
func NewBOQService(
	items projects.BOQItemRepository,
	authorizer *appidentity.Authorizer,
	events shared.EventPublisher,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) *BOQService {
	return &BOQService{
		items:   items,
		auth:    authorizer,
		events:  events,
		metrics: metrics,
		logger:  logger,
	}
}

// Create adds an item at zero progress
func (s *BOQService) Create(ctx context.Context, input CreateBOQItemInput) (*BOQItemDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceBOQItem, identity.ActionCreate)
	if err != nil {
		return nil, err
	}

	item, err := projects.NewBOQItem(actor.TenantID, actor.UserID, input.ProjectCode, input.Code,
		input.Description, input.Unit, input.Quantity, input.UnitRate)
	if err != nil {
		return nil, err
	}
	exists, err := s.items.ExistsByCode(ctx, actor.TenantID, item.ProjectCode, item.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Item code already exists in this project")
	}

	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("BOQ item created",
		zap.String("tenant_id", actor.TenantID),
		zap.String("item_id", item.ID),
		zap.String("project", item.ProjectCode),
		zap.String("code", item.Code))

	dto := ToBOQItemDTO(item)
	return &dto, nil
}

// List returns BOQ items
func (s *BOQService) List(ctx context.Context, filter BOQItemListFilter) (shared.Paginated[BOQItemDTO], error) {
	actor, decision, err := s.auth.Check(ctx, identity.ResourceBOQItem, identity.ActionRead)
	if err != nil {
		return shared.Paginated[BOQItemDTO]{}, err
	}

	f := projects.BOQItemFilter{
		Filter:      filter.Filter.Normalize(),
		ProjectCode: filter.ProjectCode,
		Completed:   filter.Completed,
		OwnerID:     appidentity.ListOwner(actor, decision),
	}
	items, total, err := s.items.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return shared.Paginated[BOQItemDTO]{}, err
	}
	dtos := lo.Map(items, func(b *projects.BOQItem, _ int) BOQItemDTO { return ToBOQItemDTO(b) })
	return shared.NewPaginated(dtos, total, f.Page, f.PageSize), nil
}

// Get returns one BOQ item
func (s *BOQService) Get(ctx context.Context, id string) (*BOQItemDTO, error) {
	item, _, err := s.load(ctx, id, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	dto := ToBOQItemDTO(item)
	return &dto, nil
}

// Update changes an item's details
func (s *BOQService) Update(ctx context.Context, id string, input UpdateBOQItemInput) (*BOQItemDTO, error) {
	item, _, err := s.load(ctx, id, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := item.UpdateDetails(input.Description, input.Unit, input.Quantity, input.UnitRate); err != nil {
		return nil, err
	}
	return s.save(ctx, item)
}

// Delete removes an item
func (s *BOQService) Delete(ctx context.Context, id string) error {
	item, actor, err := s.load(ctx, id, identity.ActionDelete)
	if err != nil {
		return err
	}
	return s.items.Delete(ctx, actor.TenantID, item.ID)
}

// Progress records delivery progress. Reaching 100% completes the item.
func (s *BOQService) Progress(ctx context.Context, id string, input ProgressInput) (*BOQItemDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "boq", "progress", "item_id", id)
	defer span.End()

	if (input.Percent == nil) == (input.Delta == nil) {
		return nil, shared.NewDomainError("INVALID_PROGRESS", "Provide exactly one of percent or delta")
	}
	item, actor, err := s.load(ctx, id, identity.ActionProgress)
	if err != nil {
		return nil, err
	}

	wasComplete := item.IsComplete()
	if input.Percent != nil {
		err = item.SetProgress(*input.Percent)
	} else {
		err = item.AddProgress(*input.Delta)
	}
	if err != nil {
		return nil, err
	}

	dto, err := s.save(ctx, item)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if item.IsComplete() && !wasComplete {
		s.metrics.BOQItemCompleted(ctx, actor.TenantID)
		s.logger.Info("BOQ item completed",
			zap.String("tenant_id", actor.TenantID),
			zap.String("item_id", item.ID),
			zap.String("owner_id", item.CreatedBy))
	}
	return dto, nil
}

func (s *BOQService) load(ctx context.Context, id, action string) (*projects.BOQItem, identity.Actor, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceBOQItem, action)
	if err != nil {
		return nil, actor, err
	}
	item, err := s.items.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, actor, err
	}
	if err := s.auth.CheckRecord(ctx, actor, identity.ResourceBOQItem, action, item.CreatedBy); err != nil {
		return nil, actor, err
	}
	return item, actor, nil
}

func (s *BOQService) save(ctx context.Context, item *projects.BOQItem) (*BOQItemDTO, error) {
	if err := s.items.Save(ctx, item); err != nil {
		return nil, err
	}
	if err := shared.PublishAndClear(ctx, s.events, item); err != nil {
		s.logger.Warn("Failed to publish BOQ events", zap.String("item_id", item.ID), zap.Error(err))
	}
	dto := ToBOQItemDTO(item)
	return &dto, nil
}
