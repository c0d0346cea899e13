package repository

import (
	"context"
	"errors"
	"time"

	"wellness-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ CompletionRepository = (*pgCompletionRepository)(nil)

// pgUniqueViolation is the PostgreSQL error code for unique constraint
// violations; the (habit_id, completed_on) index maps it to AlreadyCompleted.
const pgUniqueViolation = "23505"

type pgCompletionRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgCompletionRepository creates a new PostgreSQL-backed completion log.
func NewPgCompletionRepository(pool *pgxpool.Pool, logger *zap.Logger) CompletionRepository {
	return &pgCompletionRepository{
		pool:   pool,
		logger: logger.Named("PgCompletionRepo"),
	}
}

const createCompletionQuery = `
INSERT INTO habit_completions (id, habit_id, user_id, completed_at, completed_on)
VALUES ($1, $2, $3, $4, ($4)::date)`

const completionExistsQuery = `
SELECT EXISTS (
    SELECT 1 FROM habit_completions
    WHERE habit_id = $1 AND user_id = $2 AND completed_on = ($3)::date
)`

const countUserDayQuery = `
SELECT COUNT(*) FROM habit_completions
WHERE user_id = $1 AND completed_on = ($2)::date`

const listCompletionDaysQuery = `
SELECT DISTINCT to_char(completed_on, 'YYYY-MM-DD') AS day
FROM habit_completions
WHERE user_id = $1 AND completed_on >= (now() - interval '366 days')::date`

const listWithPillarSinceQuery = `
SELECT h.pillar, c.completed_at
FROM habit_completions c
JOIN habits h ON h.id = c.habit_id
WHERE c.user_id = $1 AND c.completed_at >= $2
ORDER BY c.completed_at`

const countByPillarQuery = `
SELECT h.pillar, COUNT(*) AS count
FROM habit_completions c
JOIN habits h ON h.id = c.habit_id
WHERE c.user_id = $1
GROUP BY h.pillar`

const pillarsCompletedOnQuery = `
SELECT DISTINCT h.pillar
FROM habit_completions c
JOIN habits h ON h.id = c.habit_id
WHERE c.user_id = $1 AND c.completed_on = ($2)::date`

func (r *pgCompletionRepository) Create(ctx context.Context, completion *models.HabitCompletion) error {
	if completion.ID == uuid.Nil {
		completion.ID = uuid.New()
	}
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, createCompletionQuery,
		completion.ID, completion.HabitID, completion.UserID, completion.CompletedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return models.ErrAlreadyCompleted
		}
		r.logger.Error("Failed to insert completion",
			zap.Stringer("habitID", completion.HabitID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgCompletionRepository) ExistsForDay(ctx context.Context, habitID, userID uuid.UUID, day time.Time) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, completionExistsQuery, habitID, userID, day).Scan(&exists); err != nil {
		r.logger.Error("Failed to check completion existence", zap.Stringer("habitID", habitID), zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (r *pgCompletionRepository) CountForUserDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, countUserDayQuery, userID, day).Scan(&count); err != nil {
		r.logger.Error("Failed to count completions for day", zap.Stringer("userID", userID), zap.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *pgCompletionRepository) ListCompletionDays(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	var days []string
	err := pgxscan.Select(ctx, r.pool, &days, listCompletionDaysQuery, userID)
	if err != nil {
		r.logger.Error("Failed to list completion days", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	set := make(map[string]struct{}, len(days))
	for _, d := range days {
		set[d] = struct{}{}
	}
	return set, nil
}

func (r *pgCompletionRepository) ListWithPillarSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]PillarCompletion, error) {
	var completions []PillarCompletion
	err := pgxscan.Select(ctx, r.pool, &completions, listWithPillarSinceQuery, userID, since)
	if err != nil {
		r.logger.Error("Failed to list completions with pillar", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return completions, nil
}

func (r *pgCompletionRepository) CountByPillar(ctx context.Context, userID uuid.UUID) (map[models.Pillar]int, error) {
	rows, err := r.pool.Query(ctx, countByPillarQuery, userID)
	if err != nil {
		r.logger.Error("Failed to count completions by pillar", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Pillar]int)
	for rows.Next() {
		var pillar models.Pillar
		var count int
		if err := rows.Scan(&pillar, &count); err != nil {
			return nil, err
		}
		counts[pillar] = count
	}
	return counts, rows.Err()
}

func (r *pgCompletionRepository) PillarsCompletedOn(ctx context.Context, userID uuid.UUID, day time.Time) (map[models.Pillar]bool, error) {
	rows, err := r.pool.Query(ctx, pillarsCompletedOnQuery, userID, day)
	if err != nil {
		r.logger.Error("Failed to list pillars completed on day", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	pillars := make(map[models.Pillar]bool)
	for rows.Next() {
		var pillar models.Pillar
		if err := rows.Scan(&pillar); err != nil {
			return nil, err
		}
		pillars[pillar] = true
	}
	return pillars, rows.Err()
}
