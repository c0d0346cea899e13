package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ AchievementRepository = (*pgAchievementRepository)(nil)

type pgAchievementRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgAchievementRepository creates a new PostgreSQL-backed unlock ledger.
func NewPgAchievementRepository(pool *pgxpool.Pool, logger *zap.Logger) AchievementRepository {
	return &pgAchievementRepository{
		pool:   pool,
		logger: logger.Named("PgAchievementRepo"),
	}
}

const listUnlockedKeysQuery = `
SELECT achievement_key FROM achievement_unlocks
WHERE user_id = $1`

const recordUnlockQuery = `
INSERT INTO achievement_unlocks (user_id, achievement_key, unlocked_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id, achievement_key) DO NOTHING`

const countReadingCompletionsQuery = `
SELECT COUNT(*) FROM reading_completions
WHERE user_id = $1`

func (r *pgAchievementRepository) ListUnlockedKeys(ctx context.Context, userID uuid.UUID) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, listUnlockedKeysQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list unlocked achievements", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	keys := make(map[string]bool)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys[key] = true
	}
	return keys, rows.Err()
}

func (r *pgAchievementRepository) RecordUnlocks(ctx context.Context, userID uuid.UUID, keys []string, at time.Time) error {
	if len(keys) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, key := range keys {
		batch.Queue(recordUnlockQuery, userID, key, at)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for range keys {
		if _, err := results.Exec(); err != nil {
			r.logger.Error("Failed to record achievement unlocks", zap.Stringer("userID", userID), zap.Error(err))
			return err
		}
	}
	r.logger.Info("Recorded achievement unlocks", zap.Stringer("userID", userID), zap.Strings("keys", keys))
	return nil
}

func (r *pgAchievementRepository) CountReadingCompletions(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, countReadingCompletionsQuery, userID).Scan(&count); err != nil {
		r.logger.Error("Failed to count reading completions", zap.Stringer("userID", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}
