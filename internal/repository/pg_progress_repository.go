package repository

import (
	"context"
	"errors"
	"time"

	"wellness-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ ProgressRepository = (*pgProgressRepository)(nil)

type pgProgressRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgProgressRepository creates a new PostgreSQL-backed progress store.
func NewPgProgressRepository(pool *pgxpool.Pool, logger *zap.Logger) ProgressRepository {
	return &pgProgressRepository{
		pool:   pool,
		logger: logger.Named("PgProgressRepo"),
	}
}

const getProgressQuery = `
SELECT user_id, total_xp, level, current_streak, longest_streak, tier, challenges, updated_at
FROM user_progress
WHERE user_id = $1`

const insertProgressQuery = `
INSERT INTO user_progress (user_id, total_xp, level, current_streak, longest_streak, tier, challenges, updated_at)
VALUES ($1, 0, 1, 0, 0, 'free', '{}', $2)
ON CONFLICT (user_id) DO NOTHING`

const updateStreakQuery = `
UPDATE user_progress
SET current_streak = $2, longest_streak = $3, updated_at = $4
WHERE user_id = $1`

const addXPQuery = `
UPDATE user_progress
SET total_xp = total_xp + $2, level = $3, updated_at = $4
WHERE user_id = $1`

func (r *pgProgressRepository) GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserProgress, error) {
	progress := &models.UserProgress{}
	err := pgxscan.Get(ctx, r.pool, progress, getProgressQuery, userID)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to get user progress", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	// First touch: initialise and re-read. ON CONFLICT keeps concurrent
	// first requests from racing each other.
	if _, err := r.pool.Exec(ctx, insertProgressQuery, userID, time.Now()); err != nil {
		r.logger.Error("Failed to initialise user progress", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	if err := pgxscan.Get(ctx, r.pool, progress, getProgressQuery, userID); err != nil {
		return nil, err
	}
	r.logger.Info("Initialised user progress", zap.Stringer("userID", userID))
	return progress, nil
}

func (r *pgProgressRepository) UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int) error {
	tag, err := r.pool.Exec(ctx, updateStreakQuery, userID, current, longest, time.Now())
	if err != nil {
		r.logger.Error("Failed to update streak", zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProgressNotFound
	}
	return nil
}

func (r *pgProgressRepository) AddXP(ctx context.Context, userID uuid.UUID, delta, level int) error {
	tag, err := r.pool.Exec(ctx, addXPQuery, userID, delta, level, time.Now())
	if err != nil {
		r.logger.Error("Failed to add XP", zap.Stringer("userID", userID), zap.Int("delta", delta), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProgressNotFound
	}
	r.logger.Debug("Awarded XP", zap.Stringer("userID", userID), zap.Int("delta", delta), zap.Int("level", level))
	return nil
}
