package gamification

import (
	"context"
	"time"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/gamification"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	defaultLeaderboardSize = 10
	maxLeaderboardSize     = 100
	historySize            = 50
)

// PointsEntryDTO is one ledger row
type PointsEntryDTO struct {
	ID         string    `json:"id"`
	Points     int       `json:"points"`
	Reason     string    `json:"reason,omitempty"`
	SourceType string    `json:"source_type"`
	SourceID   string    `json:"source_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// PointsSummaryDTO is the current user's standing
type PointsSummaryDTO struct {
	UserID  string           `json:"user_id"`
	Total   int64            `json:"total"`
	History []PointsEntryDTO `json:"history"`
}

// PointsService answers leaderboard queries
type PointsService struct {
	points gamification.PointsRepository
	auth   *appidentity.Authorizer
	logger *zap.Logger
}

// NewPointsService creates a new PointsService
func NewPointsService(points gamification.PointsRepository, authorizer *appidentity.Authorizer, logger *zap.Logger) *PointsService {
	return &PointsService{points: points, auth: authorizer, logger: logger}
}

// Leaderboard returns the tenant's users ordered by total points, descending
func (s *PointsService) Leaderboard(ctx context.Context, limit int) ([]gamification.LeaderboardRow, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourcePoints, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	limit = min(limit, maxLeaderboardSize)

	return s.points.Leaderboard(ctx, actor.TenantID, limit)
}

// Me returns the actor's total and recent ledger entries
func (s *PointsService) Me(ctx context.Context) (*PointsSummaryDTO, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourcePoints, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	total, err := s.points.TotalForUser(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return nil, err
	}
	entries, err := s.points.History(ctx, actor.TenantID, actor.UserID, historySize)
	if err != nil {
		return nil, err
	}
	return &PointsSummaryDTO{
		UserID: actor.UserID,
		Total:  total,
		History: lo.Map(entries, func(e *gamification.PointsEntry, _ int) PointsEntryDTO {
			return PointsEntryDTO{
				ID:         e.ID,
				Points:     e.Points,
				Reason:     e.Reason,
				SourceType: e.SourceType,
				SourceID:   e.SourceID,
				CreatedAt:  e.CreatedAt,
			}
		}),
	}, nil
}
