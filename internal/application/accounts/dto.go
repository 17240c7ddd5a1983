package accounts

import (
	"time"

	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceLineInput is one line of a create or update request
type InvoiceLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// CreateInvoiceInput contains the fields for a new draft invoice
type CreateInvoiceInput struct {
	CustomerID string
	Currency   string
	TaxRate    decimal.Decimal
	DueDate    *time.Time
	Notes      string
	Lines      []InvoiceLineInput
}

// UpdateInvoiceInput patches a draft. Empty CustomerID and nil fields keep
// the current values.
type UpdateInvoiceInput struct {
	CustomerID string
	TaxRate    *decimal.Decimal
	DueDate    *time.Time
	Notes      *string
	Lines      []InvoiceLineInput
}

// InvoiceListFilter narrows invoice listings
type InvoiceListFilter struct {
	shared.Filter
	Status     string
	CustomerID string
}

// InvoiceLineDTO represents an invoice line in API responses
type InvoiceLineDTO struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDTO represents an invoice in API responses
type InvoiceDTO struct {
	ID          string           `json:"id"`
	Number      string           `json:"number"`
	CustomerID  string           `json:"customer_id"`
	Currency    string           `json:"currency"`
	Status      string           `json:"status"`
	Lines       []InvoiceLineDTO `json:"lines"`
	Subtotal    decimal.Decimal  `json:"subtotal"`
	TaxRate     decimal.Decimal  `json:"tax_rate"`
	TaxAmount   decimal.Decimal  `json:"tax_amount"`
	Total       decimal.Decimal  `json:"total"`
	PaidAmount  decimal.Decimal  `json:"paid_amount"`
	DueDate     *time.Time       `json:"due_date,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	SentAt      *time.Time       `json:"sent_at,omitempty"`
	PaidAt      *time.Time       `json:"paid_at,omitempty"`
	Overdue     bool             `json:"overdue"`
	HasDocument bool             `json:"has_document"`
	CreatedBy   string           `json:"created_by"`
	Version     int              `json:"version"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToInvoiceDTO converts a domain invoice
func ToInvoiceDTO(i *accounts.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:         i.ID,
		Number:     i.Number,
		CustomerID: i.CustomerID,
		Currency:   i.Currency,
		Status:     string(i.Status),
		Lines: lo.Map(i.Lines, func(l accounts.InvoiceLine, _ int) InvoiceLineDTO {
			return InvoiceLineDTO{
				ID:          l.ID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitPrice:   l.UnitPrice,
				Amount:      l.Amount,
			}
		}),
		Subtotal:    i.Subtotal,
		TaxRate:     i.TaxRate,
		TaxAmount:   i.TaxAmount,
		Total:       i.Total,
		PaidAmount:  i.PaidAmount,
		DueDate:     i.DueDate,
		Notes:       i.Notes,
		SentAt:      i.SentAt,
		PaidAt:      i.PaidAt,
		Overdue:     i.IsOverdue(time.Now()),
		HasDocument: i.DocumentKey != "",
		CreatedBy:   i.CreatedBy,
		Version:     i.GetVersion(),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toLineInputs(lines []InvoiceLineInput) []accounts.InvoiceLineInput {
	return lo.Map(lines, func(l InvoiceLineInput, _ int) accounts.InvoiceLineInput {
		return accounts.InvoiceLineInput{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
		}
	})
}
