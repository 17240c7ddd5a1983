package models

import (
	"time"

	"github.com/erp/suite/internal/domain/identity"
)

// TenantModel is the persistence model for Tenant
type TenantModel struct {
	AggregateModel
	Code         string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string                `gorm:"type:varchar(200);not null"`
	Status       identity.TenantStatus `gorm:"type:varchar(20);not null;default:'active'"`
	ContactEmail string                `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant
func (m *TenantModel) ToDomain() *identity.Tenant {
	t := &identity.Tenant{
		Code:         m.Code,
		Name:         m.Name,
		Status:       m.Status,
		ContactEmail: m.ContactEmail,
	}
	m.PopulateAggregateRoot(&t.BaseAggregateRoot)
	return t
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *identity.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Code = t.Code
	m.Name = t.Name
	m.Status = t.Status
	m.ContactEmail = t.ContactEmail
}

// TenantModelFromDomain creates a persistence model from a domain Tenant
func TenantModelFromDomain(t *identity.Tenant) *TenantModel {
	m := &TenantModel{}
	m.FromDomain(t)
	return m
}

// UserModel is the persistence model for User.
// (tenant_id, username) uniqueness is enforced by the migration schema.
type UserModel struct {
	TenantAggregateModel
	Username       string              `gorm:"type:varchar(100);not null"`
	Email          string              `gorm:"type:varchar(200)"`
	DisplayName    string              `gorm:"type:varchar(200)"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	Role           identity.RoleCode   `gorm:"type:varchar(20);not null;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	FailedAttempts int                 `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time `gorm:"index"`
	LastLoginIP    string     `gorm:"type:varchar(45)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	u := &identity.User{
		Username:       m.Username,
		Email:          m.Email,
		DisplayName:    m.DisplayName,
		PasswordHash:   m.PasswordHash,
		Role:           m.Role,
		Status:         m.Status,
		FailedAttempts: m.FailedAttempts,
		LockedUntil:    m.LockedUntil,
		LastLoginAt:    m.LastLoginAt,
		LastLoginIP:    m.LastLoginIP,
	}
	m.PopulateTenantAggregateRoot(&u.TenantAggregateRoot)
	return u
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Username = u.Username
	m.Email = u.Email
	m.DisplayName = u.DisplayName
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
	m.LastLoginAt = u.LastLoginAt
	m.LastLoginIP = u.LastLoginIP
}

// UserModelFromDomain creates a persistence model from a domain User
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// PermissionOverrideModel stores one tenant override of the role matrix
type PermissionOverrideModel struct {
	TenantAggregateModel
	Role     identity.RoleCode `gorm:"type:varchar(20);not null"`
	Resource string            `gorm:"type:varchar(50);not null"`
	Action   string            `gorm:"type:varchar(50);not null"`
	Allowed  bool              `gorm:"not null"`
	Scope    identity.Scope    `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (PermissionOverrideModel) TableName() string {
	return "permission_overrides"
}

// ToDomain converts the persistence model to a domain PermissionOverride
func (m *PermissionOverrideModel) ToDomain() *identity.PermissionOverride {
	o := &identity.PermissionOverride{
		Role:     m.Role,
		Resource: m.Resource,
		Action:   m.Action,
		Allowed:  m.Allowed,
		Scope:    m.Scope,
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	return o
}

// PermissionOverrideModelFromDomain creates a persistence model from a domain override
func PermissionOverrideModelFromDomain(o *identity.PermissionOverride) *PermissionOverrideModel {
	m := &PermissionOverrideModel{
		Role:     o.Role,
		Resource: o.Resource,
		Action:   o.Action,
		Allowed:  o.Allowed,
		Scope:    o.Scope,
	}
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	return m
}
