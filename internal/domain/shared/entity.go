package shared

import "time"

// Entity is any record addressed by a ULID
type Entity interface {
	GetID() string
	Touch()
}

// BaseEntity carries identity and timestamps. CreatedAt is the time encoded in ID.
type BaseEntity struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity stamps a fresh ULID and matching timestamps
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: NewIDAt(now), CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() string { return e.ID }

// Touch bumps UpdatedAt
func (e *BaseEntity) Touch() { e.UpdatedAt = time.Now() }
