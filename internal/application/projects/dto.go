package projects

import (
	"time"

	"github.com/erp/suite/internal/domain/projects"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateBOQItemInput contains the fields for a new BOQ item
type CreateBOQItemInput struct {
	ProjectCode string
	Code        string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
}

// UpdateBOQItemInput contains the editable BOQ item fields
type UpdateBOQItemInput struct {
	Description string
	Unit        string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
}

// ProgressInput sets progress either absolutely (Percent) or
// incrementally (Delta). Exactly one must be given.
type ProgressInput struct {
	Percent *decimal.Decimal
	Delta   *decimal.Decimal
}

// BOQItemListFilter narrows BOQ listings
type BOQItemListFilter struct {
	shared.Filter
	ProjectCode string
	Completed   *bool
}

// BOQItemDTO represents a BOQ item in API responses
type BOQItemDTO struct {
	ID          string          `json:"id"`
	ProjectCode string          `json:"project_code"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	Amount      decimal.Decimal `json:"amount"`
	Progress    decimal.Decimal `json:"progress"`
	EarnedValue decimal.Decimal `json:"earned_value"`
	Completed   bool            `json:"completed"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	CreatedBy   string          `json:"created_by"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToBOQItemDTO converts a domain BOQ item
func ToBOQItemDTO(b *projects.BOQItem) BOQItemDTO {
	return BOQItemDTO{
		ID:          b.ID,
		ProjectCode: b.ProjectCode,
		Code:        b.Code,
		Description: b.Description,
		Unit:        b.Unit,
		Quantity:    b.Quantity,
		UnitRate:    b.UnitRate,
		Amount:      b.Amount,
		Progress:    b.Progress,
		EarnedValue: b.EarnedValue(),
		Completed:   b.IsComplete(),
		CompletedAt: b.CompletedAt,
		CreatedBy:   b.CreatedBy,
		Version:     b.GetVersion(),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
