package sales

import (
	"context"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/sales"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customers sales.CustomerRepository
	auth      *appidentity.Authorizer
	events    shared.EventPublisher
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(
	customers sales.CustomerRepository,
	authorizer *appidentity.Authorizer,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CustomerService {
	return &CustomerService{
		customers: customers,
		auth:      authorizer,
		events:    events,
		logger:    logger,
	}
}

// Create creates a new lead owned by the actor
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*CustomerDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceCustomer, identity.ActionCreate)
	if err != nil {
		return nil, err
	}

	generateCode := func(ctx context.Context) (string, error) { return s.customers.GenerateCode(ctx, actor.TenantID) }
	customer, err := shared.CreateNumbered(ctx, generateCode, func(code string) (*sales.Customer, error) {
		customer, err := sales.NewCustomer(actor.TenantID, actor.UserID, code, input.Name)
		if err != nil {
			return nil, err
		}
		if input.Email != "" || input.Phone != "" || input.Notes != "" {
			if err := customer.Update(input.Name, input.Email, input.Phone, input.Notes); err != nil {
				return nil, err
			}
		}
		return customer, s.customers.Save(ctx, customer)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	s.logger.Info("Customer created",
		zap.String("tenant_id", actor.TenantID),
		zap.String("customer_id", customer.ID),
		zap.String("code", customer.Code))

	dto := ToCustomerDTO(customer)
	return &dto, nil
}

// List returns the customers the actor may read
func (s *CustomerService) List(ctx context.Context, filter CustomerListFilter) (shared.Paginated[CustomerDTO], error) {
	actor, decision, err := s.auth.Check(ctx, identity.ResourceCustomer, identity.ActionRead)
	if err != nil {
		return shared.Paginated[CustomerDTO]{}, err
	}

	f := sales.CustomerFilter{
		Filter:  filter.Filter.Normalize(),
		OwnerID: appidentity.ListOwner(actor, decision),
	}
	if filter.Status != "" {
		status := sales.CustomerStatus(filter.Status)
		if !status.IsValid() {
			return shared.Paginated[CustomerDTO]{}, shared.NewDomainError(shared.ErrInvalidInput.Code, "Unknown customer status: "+filter.Status)
		}
		f.Status = &status
	}

	customers, total, err := s.customers.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return shared.Paginated[CustomerDTO]{}, err
	}
	items := lo.Map(customers, func(c *sales.Customer, _ int) CustomerDTO { return ToCustomerDTO(c) })
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns one customer
func (s *CustomerService) Get(ctx context.Context, id string) (*CustomerDTO, error) {
	customer, _, err := s.load(ctx, id, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	dto := ToCustomerDTO(customer)
	return &dto, nil
}

// Update changes a customer's contact details
func (s *CustomerService) Update(ctx context.Context, id string, input UpdateCustomerInput) (*CustomerDTO, error) {
	return s.mutate(ctx, id, func(c *sales.Customer) error {
		return c.Update(input.Name, input.Email, input.Phone, input.Notes)
	})
}

// Activate converts a lead or reactivates an inactive customer
func (s *CustomerService) Activate(ctx context.Context, id string) (*CustomerDTO, error) {
	return s.mutate(ctx, id, func(c *sales.Customer) error {
		return c.Activate()
	})
}

// Deactivate marks an active customer inactive
func (s *CustomerService) Deactivate(ctx context.Context, id string) (*CustomerDTO, error) {
	return s.mutate(ctx, id, func(c *sales.Customer) error {
		return c.Deactivate()
	})
}

// Delete removes a customer
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	customer, actor, err := s.load(ctx, id, identity.ActionDelete)
	if err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, actor.TenantID, customer.ID); err != nil {
		return err
	}
	s.logger.Info("Customer deleted",
		zap.String("tenant_id", actor.TenantID),
		zap.String("customer_id", customer.ID))
	return nil
}

func (s *CustomerService) mutate(ctx context.Context, id string, fn func(*sales.Customer) error) (*CustomerDTO, error) {
	customer, _, err := s.load(ctx, id, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}
	if err := fn(customer); err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	s.publish(ctx, customer)

	dto := ToCustomerDTO(customer)
	return &dto, nil
}

func (s *CustomerService) load(ctx context.Context, id, action string) (*sales.Customer, identity.Actor, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceCustomer, action)
	if err != nil {
		return nil, actor, err
	}
	customer, err := s.customers.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, actor, err
	}
	if err := s.auth.CheckRecord(ctx, actor, identity.ResourceCustomer, action, customer.CreatedBy); err != nil {
		return nil, actor, err
	}
	return customer, actor, nil
}

func (s *CustomerService) publish(ctx context.Context, customer *sales.Customer) {
	if err := shared.PublishAndClear(ctx, s.events, customer); err != nil {
		s.logger.Warn("Failed to publish customer events", zap.Error(err))
	}
}
