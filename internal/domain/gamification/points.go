package gamification

import (
	"strings"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Point rules
const (
	InvoicePaidBasePoints  = 10
	InvoicePaidPointsPer   = 100 // one extra point per this much invoiced
	BOQItemCompletedPoints = 5
)

// Source types for ledger entries
const (
	SourceInvoice = "invoice"
	SourceBOQItem = "boq_item"
	SourceManual  = "manual"
)

// PointsEntry is an append-only ledger row crediting a user
type PointsEntry struct {
	shared.BaseEntity
	TenantID   string
	UserID     string
	Points     int
	Reason     string
	SourceType string
	SourceID   string
}

// NewPointsEntry builds a ledger entry
func NewPointsEntry(tenantID, userID string, points int, reason, sourceType, sourceID string) (*PointsEntry, error) {
	if tenantID == "" {
		return nil, shared.ErrTenantRequired
	}
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Points must be credited to a user")
	}
	if points == 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points cannot be zero")
	}
	if strings.TrimSpace(sourceType) == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source type is required")
	}
	return &PointsEntry{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		UserID:     userID,
		Points:     points,
		Reason:     strings.TrimSpace(reason),
		SourceType: sourceType,
		SourceID:   sourceID,
	}, nil
}

// PointsForInvoice returns the award for settling an invoice of total
func PointsForInvoice(total decimal.Decimal) int {
	if total.IsNegative() {
		return InvoicePaidBasePoints
	}
	bonus := total.Div(decimal.NewFromInt(InvoicePaidPointsPer)).Floor().IntPart()
	return InvoicePaidBasePoints + int(bonus)
}

// LeaderboardRow aggregates one user's points
type LeaderboardRow struct {
	UserID string `json:"user_id"`
	Points int64  `json:"points"`
	Rank   int    `json:"rank"`
}
