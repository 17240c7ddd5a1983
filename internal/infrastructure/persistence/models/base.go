package models

import (
	"time"

	"github.com/erp/suite/internal/domain/shared"
)

// BaseModel holds the columns every table has. IDs are ULID strings.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(26);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID, m.CreatedAt, m.UpdatedAt = e.ID, e.CreatedAt, e.UpdatedAt
}

// AggregateModel adds the version column used for optimistic locking
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
}

// PopulateAggregateRoot restores the aggregate and marks it persisted, so
// its next save is an UPDATE guarded by the loaded version.
func (m *AggregateModel) PopulateAggregateRoot(a *shared.BaseAggregateRoot) {
	a.BaseEntity = m.BaseModel.ToDomain()
	a.Version = m.Version
	a.MarkPersisted()
}

// TenantAggregateModel is the row shape of every tenant-owned aggregate.
// tenant_id is what the tenant scope callback filters on.
type TenantAggregateModel struct {
	AggregateModel
	TenantID  string `gorm:"type:varchar(26);not null;index"`
	CreatedBy string `gorm:"type:varchar(26);index"`
}

func (m *TenantAggregateModel) FromDomainTenantAggregateRoot(t shared.TenantAggregateRoot) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.TenantID, m.CreatedBy = t.TenantID, t.CreatedBy
}

func (m *TenantAggregateModel) PopulateTenantAggregateRoot(t *shared.TenantAggregateRoot) {
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	t.TenantID, t.CreatedBy = m.TenantID, m.CreatedBy
}
