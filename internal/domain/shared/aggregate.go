package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	PersistedVersion() int
	MarkPersisted()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version          int
	persistedVersion int
	domainEvents     []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// PersistedVersion returns the version last read from or written to storage.
// Zero means the aggregate has never been stored.
func (a *BaseAggregateRoot) PersistedVersion() int {
	return a.persistedVersion
}

// MarkPersisted records that the current version matches storage
func (a *BaseAggregateRoot) MarkPersisted() {
	a.persistedVersion = a.Version
}

// IsNew reports whether the aggregate has not been stored yet
func (a *BaseAggregateRoot) IsNew() bool {
	return a.persistedVersion == 0
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}

// TenantAggregateRoot extends BaseAggregateRoot with multi-tenant support
type TenantAggregateRoot struct {
	BaseAggregateRoot
	TenantID  string
	CreatedBy string // owner; empty for system-created records
}

// NewTenantAggregateRoot creates a new tenant-scoped aggregate root
func NewTenantAggregateRoot(tenantID string) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
	}
}

// NewOwnedAggregateRoot creates a new tenant-scoped aggregate root owned by createdBy
func NewOwnedAggregateRoot(tenantID, createdBy string) TenantAggregateRoot {
	return TenantAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		TenantID:          tenantID,
		CreatedBy:         createdBy,
	}
}

// GetTenantID returns the owning tenant
func (t *TenantAggregateRoot) GetTenantID() string {
	return t.TenantID
}

// IsOwnedBy reports whether userID created this record
func (t *TenantAggregateRoot) IsOwnedBy(userID string) bool {
	return t.CreatedBy != "" && t.CreatedBy == userID
}

// BelongsTo reports whether the record is in the given tenant
func (t *TenantAggregateRoot) BelongsTo(tenantID string) bool {
	return tenantID != "" && t.TenantID == tenantID
}
