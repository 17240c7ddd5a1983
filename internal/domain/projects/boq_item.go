package projects

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxProgress is the ceiling for work progress, in percent
var MaxProgress = decimal.NewFromInt(100)

// BOQItem is a bill-of-quantities line tracked through delivery
type BOQItem struct {
	shared.TenantAggregateRoot
	ProjectCode string
	Code        string
	Description string
	Unit        string
	Quantity    decimal.Decimal
	UnitRate    decimal.Decimal
	Amount      decimal.Decimal
	Progress    decimal.Decimal // percent, 0-100
	CompletedAt *time.Time
}

// NewBOQItem creates an item at zero progress
func NewBOQItem(tenantID, createdBy, projectCode, code, description, unit string, quantity, unitRate decimal.Decimal) (*BOQItem, error) {
	projectCode = strings.TrimSpace(projectCode)
	if projectCode == "" {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project code cannot be empty")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Item code cannot be empty")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if err := validateQuantities(quantity, unitRate); err != nil {
		return nil, err
	}

	item := &BOQItem{
		TenantAggregateRoot: shared.NewOwnedAggregateRoot(tenantID, createdBy),
		ProjectCode:         strings.ToUpper(projectCode),
		Code:                code,
		Description:         strings.TrimSpace(description),
		Unit:                strings.TrimSpace(unit),
		Quantity:            quantity,
		UnitRate:            unitRate,
		Progress:            decimal.Zero,
	}
	item.recalculate()
	return item, nil
}

// IsComplete reports whether progress has reached 100%
func (b *BOQItem) IsComplete() bool {
	return b.Progress.GreaterThanOrEqual(MaxProgress)
}

// UpdateDetails changes description, unit, quantity and rate.
// Quantities are frozen once the item is complete.
func (b *BOQItem) UpdateDetails(description, unit string, quantity, unitRate decimal.Decimal) error {
	if strings.TrimSpace(description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if err := validateQuantities(quantity, unitRate); err != nil {
		return err
	}
	if b.IsComplete() && (!quantity.Equal(b.Quantity) || !unitRate.Equal(b.UnitRate)) {
		return shared.NewDomainError("INVALID_STATE", "Cannot change quantity or rate of a completed item")
	}
	b.Description = strings.TrimSpace(description)
	b.Unit = strings.TrimSpace(unit)
	b.Quantity = quantity
	b.UnitRate = unitRate
	b.recalculate()
	b.Touch()
	b.IncrementVersion()
	return nil
}

// SetProgress sets absolute progress. Values above 100 are capped.
// A completed item stays complete: lowering its progress is INVALID_STATE.
func (b *BOQItem) SetProgress(percent decimal.Decimal) error {
	if percent.IsNegative() {
		return shared.NewDomainError("INVALID_PROGRESS", "Progress cannot be negative")
	}
	if b.IsComplete() && percent.LessThan(MaxProgress) {
		return shared.NewDomainError("INVALID_STATE", "Cannot lower progress of a completed item")
	}
	b.applyProgress(percent)
	return nil
}

// AddProgress adds delta percent, capping the total at 100
func (b *BOQItem) AddProgress(delta decimal.Decimal) error {
	if !delta.IsPositive() {
		return shared.NewDomainError("INVALID_PROGRESS", "Progress increment must be positive")
	}
	if b.IsComplete() {
		return shared.NewDomainError("INVALID_STATE", "Item is already complete")
	}
	b.applyProgress(b.Progress.Add(delta))
	return nil
}

func (b *BOQItem) applyProgress(percent decimal.Decimal) {
	percent = decimal.Min(percent, MaxProgress).Round(2)
	wasComplete := b.IsComplete()

	b.Progress = percent
	now := time.Now()
	b.UpdatedAt = now
	b.IncrementVersion()

	if b.IsComplete() && !wasComplete {
		b.CompletedAt = &now
		b.AddDomainEvent(NewBOQItemCompletedEvent(b))
	}
}

// EarnedValue is the amount of work done so far
func (b *BOQItem) EarnedValue() decimal.Decimal {
	return b.Amount.Mul(b.Progress).Div(MaxProgress).Round(2)
}

func (b *BOQItem) recalculate() {
	b.Amount = b.Quantity.Mul(b.UnitRate).Round(2)
}

func validateQuantities(quantity, unitRate decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", fmt.Sprintf("Unit rate cannot be negative: %s", unitRate))
	}
	return nil
}
