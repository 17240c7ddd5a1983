package models

import (
	"github.com/erp/suite/internal/domain/gamification"
)

// PointsEntryModel is one append-only row of the points ledger.
// (tenant_id, user_id, source_type, source_id) is unique in the migration schema.
type PointsEntryModel struct {
	BaseModel
	TenantID   string `gorm:"type:varchar(26);not null;index"`
	UserID     string `gorm:"type:varchar(26);not null;index"`
	Points     int    `gorm:"not null"`
	Reason     string `gorm:"type:varchar(200);not null"`
	SourceType string `gorm:"type:varchar(30);not null"`
	SourceID   string `gorm:"type:varchar(26);not null"`
}

// TableName returns the table name for GORM
func (PointsEntryModel) TableName() string {
	return "points_entries"
}

// ToDomain converts the persistence model to a domain PointsEntry
func (m *PointsEntryModel) ToDomain() *gamification.PointsEntry {
	return &gamification.PointsEntry{
		BaseEntity: m.BaseModel.ToDomain(),
		TenantID:   m.TenantID,
		UserID:     m.UserID,
		Points:     m.Points,
		Reason:     m.Reason,
		SourceType: m.SourceType,
		SourceID:   m.SourceID,
	}
}

// PointsEntryModelFromDomain creates a persistence model from a ledger entry
func PointsEntryModelFromDomain(e *gamification.PointsEntry) *PointsEntryModel {
	m := &PointsEntryModel{
		TenantID:   e.TenantID,
		UserID:     e.UserID,
		Points:     e.Points,
		Reason:     e.Reason,
		SourceType: e.SourceType,
		SourceID:   e.SourceID,
	}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
