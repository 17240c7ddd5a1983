package accounts

import (
	"context"
	"time"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/application/printing"
	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/sales"
	"github.com/erp/suite/internal/domain/shared"
	infraprinting "github.com/erp/suite/internal/infrastructure/printing"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var errInvalidCustomer = shared.NewDomainError("INVALID_CUSTOMER", "Customer does not exist")

// InvoiceServiceDeps bundles the collaborators of InvoiceService
type InvoiceServiceDeps struct {
	Invoices   accounts.InvoiceRepository
	Customers  sales.CustomerRepository
	Tenants    identity.TenantRepository
	Authorizer *appidentity.Authorizer
	Printer    *printing.PrintService
	Events     shared.EventPublisher
	Metrics    *telemetry.BusinessMetrics
}

// InvoiceService handles invoice lifecycle operations
type InvoiceService struct {
	invoices  accounts.InvoiceRepository
	customers sales.CustomerRepository
	tenants   identity.TenantRepository
	auth      *appidentity.Authorizer
	printer   *printing.PrintService
	events    shared.EventPublisher
	metrics   *telemetry.BusinessMetrics
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(deps InvoiceServiceDeps, logger *zap.Logger) *InvoiceService {
	return &InvoiceService{
		invoices:  deps.Invoices,
		customers: deps.Customers,
		tenants:   deps.Tenants,
		auth:      deps.Authorizer,
		printer:   deps.Printer,
		events:    deps.Events,
		metrics:   deps.Metrics,
		logger:    logger,
	}
}

// Create creates a draft invoice owned by the actor
func (s *InvoiceService) Create(ctx context.Context, input CreateInvoiceInput) (*InvoiceDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "create", "customer_id", input.CustomerID)
	defer span.End()

	actor, _, err := s.auth.Check(ctx, identity.ResourceInvoice, identity.ActionCreate)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCustomer(ctx, actor.TenantID, input.CustomerID); err != nil {
		return nil, err
	}

	generateNumber := func(ctx context.Context) (string, error) { return s.invoices.GenerateNumber(ctx, actor.TenantID) }
	invoice, err := shared.CreateNumbered(ctx, generateNumber, func(number string) (*accounts.Invoice, error) {
		invoice, err := s.draft(actor, number, input)
		if err != nil {
			return nil, err
		}
		return invoice, s.invoices.SaveWithLock(ctx, invoice)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, invoice)
	s.metrics.InvoiceCreated(ctx, actor.TenantID)

	s.logger.Info("Invoice created",
		zap.String("tenant_id", actor.TenantID),
		zap.String("invoice_id", invoice.ID),
		zap.String("number", invoice.Number),
		zap.String("total", invoice.Total.StringFixed(2)))

	dto := ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) draft(actor identity.Actor, number string, input CreateInvoiceInput) (*accounts.Invoice, error) {
	invoice, err := accounts.NewInvoice(actor.TenantID, actor.UserID, number, input.CustomerID, input.Currency)
	if err != nil {
		return nil, err
	}
	if input.DueDate != nil || input.Notes != "" {
		if err := invoice.UpdateHeader(input.CustomerID, input.DueDate, input.Notes); err != nil {
			return nil, err
		}
	}
	if !input.TaxRate.IsZero() {
		if err := invoice.SetTaxRate(input.TaxRate); err != nil {
			return nil, err
		}
	}
	if len(input.Lines) > 0 {
		if err := invoice.SetLines(toLineInputs(input.Lines)); err != nil {
			return nil, err
		}
	}
	return invoice, nil
}

// List returns the invoices visible to the actor. Other users' drafts never appear.
func (s *InvoiceService) List(ctx context.Context, filter InvoiceListFilter) (shared.Paginated[InvoiceDTO], error) {
	actor, decision, err := s.auth.Check(ctx, identity.ResourceInvoice, identity.ActionRead)
	if err != nil {
		return shared.Paginated[InvoiceDTO]{}, err
	}

	f := accounts.InvoiceFilter{
		Filter:     filter.Filter.Normalize(),
		CustomerID: filter.CustomerID,
		ViewerID:   actor.UserID,
		OwnerID:    appidentity.ListOwner(actor, decision),
	}
	if filter.Status != "" {
		status, err := accounts.ParseInvoiceStatus(filter.Status)
		if err != nil {
			return shared.Paginated[InvoiceDTO]{}, err
		}
		f.Status = &status
	}

	invoices, total, err := s.invoices.FindAll(ctx, actor.TenantID, f)
	if err != nil {
		return shared.Paginated[InvoiceDTO]{}, err
	}
	items := lo.Map(invoices, func(i *accounts.Invoice, _ int) InvoiceDTO { return ToInvoiceDTO(i) })
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Get returns one invoice
func (s *InvoiceService) Get(ctx context.Context, id string) (*InvoiceDTO, error) {
	invoice, _, err := s.load(ctx, id, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	dto := ToInvoiceDTO(invoice)
	return &dto, nil
}

// Update edits a draft invoice
func (s *InvoiceService) Update(ctx context.Context, id string, input UpdateInvoiceInput) (*InvoiceDTO, error) {
	invoice, actor, err := s.load(ctx, id, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}

	customerID := lo.Ternary(input.CustomerID != "", input.CustomerID, invoice.CustomerID)
	if customerID != invoice.CustomerID {
		if err := s.ensureCustomer(ctx, actor.TenantID, customerID); err != nil {
			return nil, err
		}
	}
	dueDate := lo.Ternary(input.DueDate != nil, input.DueDate, invoice.DueDate)
	if err := invoice.UpdateHeader(customerID, dueDate, lo.FromPtrOr(input.Notes, invoice.Notes)); err != nil {
		return nil, err
	}
	if input.TaxRate != nil {
		if err := invoice.SetTaxRate(*input.TaxRate); err != nil {
			return nil, err
		}
	}
	if input.Lines != nil {
		if err := invoice.SetLines(toLineInputs(input.Lines)); err != nil {
			return nil, err
		}
	}

	return s.save(ctx, invoice)
}

// Delete removes a draft invoice
func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	invoice, actor, err := s.load(ctx, id, identity.ActionDelete)
	if err != nil {
		return err
	}
	if !invoice.CanDelete() {
		return shared.NewDomainError(shared.ErrInvalidState.Code, "Only draft invoices can be deleted")
	}
	if err := s.invoices.Delete(ctx, actor.TenantID, invoice.ID); err != nil {
		return err
	}
	s.logger.Info("Invoice deleted",
		zap.String("tenant_id", actor.TenantID),
		zap.String("invoice_id", invoice.ID))
	return nil
}

// Send issues a draft invoice (DRAFT -> SENT)
func (s *InvoiceService) Send(ctx context.Context, id string) (*InvoiceDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "send", "invoice_id", id)
	defer span.End()

	invoice, _, err := s.load(ctx, id, identity.ActionSend)
	if err != nil {
		return nil, err
	}
	if err := invoice.Send(); err != nil {
		return nil, err
	}
	return s.save(ctx, invoice)
}

// Pay settles a sent invoice in full (SENT -> PAID)
func (s *InvoiceService) Pay(ctx context.Context, id string, amount decimal.Decimal) (*InvoiceDTO, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "pay", "invoice_id", id)
	defer span.End()

	invoice, actor, err := s.load(ctx, id, identity.ActionPay)
	if err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(amount); err != nil {
		return nil, err
	}
	dto, err := s.save(ctx, invoice)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.metrics.InvoicePaid(ctx, actor.TenantID, invoice.Currency, invoice.Total)
	return dto, nil
}

// GenerateDocument renders the invoice to PDF, stores it and returns a
// download link. Anyone who can read the invoice may generate it.
func (s *InvoiceService) GenerateDocument(ctx context.Context, id string) (*printing.DocumentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate_document", "invoice_id", id)
	defer span.End()

	if !s.printer.Enabled() {
		return nil, shared.NewDomainError(shared.ErrFeatureDisabled.Code, "Invoice documents are not configured")
	}
	invoice, actor, err := s.load(ctx, id, identity.ActionRead)
	if err != nil {
		return nil, err
	}

	doc := infraprinting.InvoiceDocument{Invoice: invoice, GeneratedAt: time.Now()}
	if tenant, err := s.tenants.FindByID(ctx, actor.TenantID); err == nil {
		doc.TenantName = tenant.Name
	}
	if customer, err := s.customers.FindByID(ctx, actor.TenantID, invoice.CustomerID); err == nil {
		doc.CustomerName = customer.Name
		doc.CustomerEmail = customer.Email
	}

	result, err := s.printer.GenerateInvoicePDF(ctx, doc)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if invoice.DocumentKey != result.Key {
		invoice.AttachDocument(result.Key)
		if err := s.invoices.SaveWithLock(ctx, invoice); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}
	return result, nil
}

func (s *InvoiceService) load(ctx context.Context, id, action string) (*accounts.Invoice, identity.Actor, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourceInvoice, action)
	if err != nil {
		return nil, actor, err
	}
	invoice, err := s.invoices.FindByID(ctx, actor.TenantID, id)
	if err != nil {
		return nil, actor, err
	}
	if !invoice.IsVisibleTo(actor.UserID) {
		return nil, actor, shared.ErrNotFound
	}
	if err := s.auth.CheckRecord(ctx, actor, identity.ResourceInvoice, action, invoice.CreatedBy); err != nil {
		return nil, actor, err
	}
	return invoice, actor, nil
}

func (s *InvoiceService) save(ctx context.Context, invoice *accounts.Invoice) (*InvoiceDTO, error) {
	if err := s.invoices.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}
	s.publish(ctx, invoice)
	dto := ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) ensureCustomer(ctx context.Context, tenantID, customerID string) error {
	if customerID == "" {
		return errInvalidCustomer
	}
	exists, err := s.customers.Exists(ctx, tenantID, customerID)
	if err != nil {
		return err
	}
	if !exists {
		return errInvalidCustomer
	}
	return nil
}

func (s *InvoiceService) publish(ctx context.Context, invoice *accounts.Invoice) {
	if err := shared.PublishAndClear(ctx, s.events, invoice); err != nil {
		s.logger.Warn("Failed to publish invoice events",
			zap.String("invoice_id", invoice.ID),
			zap.Error(err))
	}
}
