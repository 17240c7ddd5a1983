package persistence

import (
	"context"
	"errors"

	"github.com/erp/suite/internal/domain/gamification"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormPointsRepository implements gamification.PointsRepository using GORM
type GormPointsRepository struct {
	db *gorm.DB
}

// NewGormPointsRepository creates a new GormPointsRepository
func NewGormPointsRepository(db *gorm.DB) *GormPointsRepository {
	return &GormPointsRepository{db: db}
}

// Award inserts entry once per (tenant, user, source type, source id).
// Redelivered events hit the existing row and report false.
func (r *GormPointsRepository) Award(ctx context.Context, entry *gamification.PointsEntry) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PointsEntryModel{}).
		Scopes(tenant.Scope(entry.TenantID)).
		Where("user_id = ? AND source_type = ? AND source_id = ?", entry.UserID, entry.SourceType, entry.SourceID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	if err := r.db.WithContext(ctx).Create(models.PointsEntryModelFromDomain(entry)).Error; err != nil {
		// lost a race with a concurrent delivery
		if errors.Is(translateError(err), shared.ErrAlreadyExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type leaderboardScan struct {
	UserID string
	Total  int64
}

// Leaderboard returns the top users by total points, ranked from 1
func (r *GormPointsRepository) Leaderboard(ctx context.Context, tenantID string, limit int) ([]gamification.LeaderboardRow, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []leaderboardScan
	if err := r.db.WithContext(ctx).
		Model(&models.PointsEntryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Select("user_id, SUM(points) AS total").
		Group("user_id").
		Order("total DESC").
		Order("user_id ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(row leaderboardScan, i int) gamification.LeaderboardRow {
		return gamification.LeaderboardRow{UserID: row.UserID, Points: row.Total, Rank: i + 1}
	}), nil
}

// TotalForUser sums a user's ledger
func (r *GormPointsRepository) TotalForUser(ctx context.Context, tenantID, userID string) (int64, error) {
	var totals []int64
	if err := r.db.WithContext(ctx).
		Model(&models.PointsEntryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID).
		Pluck("COALESCE(SUM(points), 0)", &totals).Error; err != nil {
		return 0, err
	}
	if len(totals) == 0 {
		return 0, nil
	}
	return totals[0], nil
}

// History returns a user's most recent ledger entries
func (r *GormPointsRepository) History(ctx context.Context, tenantID, userID string, limit int) ([]*gamification.PointsEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []models.PointsEntryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(m models.PointsEntryModel, _ int) *gamification.PointsEntry {
		return m.ToDomain()
	}), nil
}

var _ gamification.PointsRepository = (*GormPointsRepository)(nil)
