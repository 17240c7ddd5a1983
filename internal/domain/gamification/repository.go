package gamification

import "context"

// PointsRepository persists the points ledger
type PointsRepository interface {
	// Award inserts the entry unless one already exists for the same
	// (tenant, user, source type, source id). Returns false when skipped.
	Award(ctx context.Context, entry *PointsEntry) (bool, error)
	Leaderboard(ctx context.Context, tenantID string, limit int) ([]LeaderboardRow, error)
	TotalForUser(ctx context.Context, tenantID, userID string) (int64, error)
	History(ctx context.Context, tenantID, userID string, limit int) ([]*PointsEntry, error)
}
