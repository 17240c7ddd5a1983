package persistence

import (
	"context"
	"strings"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, u *identity.User) error {
	return r.Save(ctx, u)
}

// Save inserts or updates a user with a version check
func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return saveVersioned(r.db.WithContext(ctx), u, models.UserModelFromDomain(u), u.TenantID, u.ID)
}

// FindByID finds a user by ID within a tenant
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username within a tenant
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID, username string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists users of a tenant
func (r *GormUserRepository) FindAll(ctx context.Context, tenantID string, filter identity.UserFilter) ([]*identity.User, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(tenant.Scope(tenantID))
		if filter.Search != "" {
			p := searchPattern(filter.Search)
			q = q.Where("(LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?)", p, p, p)
		}
		if filter.Role != nil {
			q = q.Where("role = ?", *filter.Role)
		}
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var userModels []models.UserModel
	if err := base().Scopes(paginate(filter.Filter, UserSortFields, "created_at")).Find(&userModels).Error; err != nil {
		return nil, 0, err
	}
	return lo.Map(userModels, func(m models.UserModel, _ int) *identity.User {
		return m.ToDomain()
	}), total, nil
}

// ExistsByUsername checks if a username is taken within a tenant
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID, username string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("username = ?", strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
