package accounts

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusSent  InvoiceStatus = "SENT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
)

// invoiceStatusOrder defines the only legal direction of travel
var invoiceStatusOrder = map[InvoiceStatus]int{
	InvoiceStatusDraft: 0,
	InvoiceStatusSent:  1,
	InvoiceStatusPaid:  2,
}

// IsValid checks if the status is a known InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	_, ok := invoiceStatusOrder[s]
	return ok
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// CanEdit returns true if lines and header fields may change
func (s InvoiceStatus) CanEdit() bool {
	return s == InvoiceStatusDraft
}

// CanTransitionTo reports whether target is the immediate next state
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	from, ok := invoiceStatusOrder[s]
	if !ok {
		return false
	}
	to, ok := invoiceStatusOrder[target]
	if !ok {
		return false
	}
	return to == from+1
}

// ParseInvoiceStatus normalizes a status string
func ParseInvoiceStatus(s string) (InvoiceStatus, error) {
	st := InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", shared.NewDomainError("INVALID_STATUS", "Unknown invoice status: "+s)
	}
	return st, nil
}

// InvoiceLine is a single billed item
type InvoiceLine struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceLineInput carries the fields needed to build a line
type InvoiceLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// Invoice is the aggregate root for customer billing
type Invoice struct {
	shared.TenantAggregateRoot
	Number      string
	CustomerID  string
	Currency    string
	Lines       []InvoiceLine
	TaxRate     decimal.Decimal
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	Total       decimal.Decimal
	DueDate     *time.Time
	Notes       string
	Status      InvoiceStatus
	SentAt      *time.Time
	PaidAt      *time.Time
	PaidAmount  decimal.Decimal
	DocumentKey string
}

// NewInvoice creates a draft invoice owned by createdBy
func NewInvoice(tenantID, createdBy, number, customerID, currency string) (*Invoice, error) {
	if createdBy == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Invoice owner cannot be empty")
	}
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if customerID == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer cannot be empty")
	}
	if currency == "" {
		currency = "USD"
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	inv := &Invoice{
		TenantAggregateRoot: shared.NewOwnedAggregateRoot(tenantID, createdBy),
		Number:              number,
		CustomerID:          customerID,
		Currency:            strings.ToUpper(currency),
		Lines:               make([]InvoiceLine, 0),
		TaxRate:             decimal.Zero,
		Subtotal:            decimal.Zero,
		TaxAmount:           decimal.Zero,
		Total:               decimal.Zero,
		PaidAmount:          decimal.Zero,
		Status:              InvoiceStatusDraft,
	}

	inv.AddDomainEvent(NewInvoiceCreatedEvent(inv))
	return inv, nil
}

// IsVisibleTo reports whether userID may see the invoice at all.
// Drafts are private to their creator.
func (i *Invoice) IsVisibleTo(userID string) bool {
	if i.Status == InvoiceStatusDraft {
		return i.IsOwnedBy(userID)
	}
	return true
}

func (i *Invoice) ensureEditable(op string) error {
	if !i.Status.CanEdit() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot %s invoice in %s status", op, i.Status))
	}
	return nil
}

// SetLines replaces all lines and recalculates totals
func (i *Invoice) SetLines(inputs []InvoiceLineInput) error {
	if err := i.ensureEditable("edit lines of"); err != nil {
		return err
	}

	lines := make([]InvoiceLine, 0, len(inputs))
	for idx, in := range inputs {
		desc := strings.TrimSpace(in.Description)
		if desc == "" {
			return shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d: description cannot be empty", idx+1))
		}
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d: quantity must be positive", idx+1))
		}
		if in.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d: unit price cannot be negative", idx+1))
		}
		lines = append(lines, InvoiceLine{
			ID:          shared.NewID(),
			Description: desc,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      in.Quantity.Mul(in.UnitPrice).Round(2),
		})
	}

	i.Lines = lines
	i.recalculate()
	i.Touch()
	i.IncrementVersion()
	return nil
}

// SetTaxRate sets the tax rate as a fraction between 0 and 1
func (i *Invoice) SetTaxRate(rate decimal.Decimal) error {
	if err := i.ensureEditable("change tax of"); err != nil {
		return err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "Tax rate must be between 0 and 1")
	}
	i.TaxRate = rate
	i.recalculate()
	i.Touch()
	i.IncrementVersion()
	return nil
}

// UpdateHeader changes customer, due date and notes
func (i *Invoice) UpdateHeader(customerID string, dueDate *time.Time, notes string) error {
	if err := i.ensureEditable("update"); err != nil {
		return err
	}
	if customerID == "" {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer cannot be empty")
	}
	if dueDate != nil && dueDate.Before(i.CreatedAt.Truncate(24*time.Hour)) {
		return shared.NewDomainError("INVALID_DUE_DATE", "Due date cannot be before the invoice date")
	}
	if len(notes) > 2000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}
	i.CustomerID = customerID
	i.DueDate = dueDate
	i.Notes = strings.TrimSpace(notes)
	i.Touch()
	i.IncrementVersion()
	return nil
}

func (i *Invoice) recalculate() {
	subtotal := decimal.Zero
	for _, l := range i.Lines {
		subtotal = subtotal.Add(l.Amount)
	}
	i.Subtotal = subtotal
	i.TaxAmount = subtotal.Mul(i.TaxRate).Round(2)
	i.Total = subtotal.Add(i.TaxAmount)
}

// Send issues the invoice to the customer (DRAFT -> SENT)
func (i *Invoice) Send() error {
	if !i.Status.CanTransitionTo(InvoiceStatusSent) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot send invoice in %s status", i.Status))
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("EMPTY_INVOICE", "Cannot send an invoice without lines")
	}

	now := time.Now()
	i.Status = InvoiceStatusSent
	i.SentAt = &now
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceSentEvent(i))
	return nil
}

// MarkPaid settles the invoice in full (SENT -> PAID)
func (i *Invoice) MarkPaid(amount decimal.Decimal) error {
	if !i.Status.CanTransitionTo(InvoiceStatusPaid) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot pay invoice in %s status", i.Status))
	}
	if !amount.Equal(i.Total) {
		return shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Payment amount %s does not match invoice total %s", amount.StringFixed(2), i.Total.StringFixed(2)))
	}

	now := time.Now()
	i.Status = InvoiceStatusPaid
	i.PaidAt = &now
	i.PaidAmount = amount
	i.UpdatedAt = now
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoicePaidEvent(i))
	return nil
}

// TransitionTo moves the invoice to target, rejecting anything that is not
// the next forward state.
func (i *Invoice) TransitionTo(target InvoiceStatus, paidAmount decimal.Decimal) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown invoice status: "+string(target))
	}
	switch {
	case i.Status.CanTransitionTo(target) && target == InvoiceStatusSent:
		return i.Send()
	case i.Status.CanTransitionTo(target) && target == InvoiceStatusPaid:
		return i.MarkPaid(paidAmount)
	default:
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move invoice from %s to %s", i.Status, target))
	}
}

// CanDelete reports whether the invoice may be removed
func (i *Invoice) CanDelete() bool {
	return i.Status == InvoiceStatusDraft
}

// AttachDocument records where the rendered PDF is stored
func (i *Invoice) AttachDocument(key string) {
	i.DocumentKey = key
	i.Touch()
	i.IncrementVersion()
}

// IsOverdue reports whether a sent invoice is past its due date
func (i *Invoice) IsOverdue(now time.Time) bool {
	return i.Status == InvoiceStatusSent && i.DueDate != nil && now.After(*i.DueDate)
}
