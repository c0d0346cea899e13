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
var _ HabitRepository = (*pgHabitRepository)(nil)

type pgHabitRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgHabitRepository creates a new PostgreSQL-backed habit repository.
func NewPgHabitRepository(pool *pgxpool.Pool, logger *zap.Logger) HabitRepository {
	return &pgHabitRepository{
		pool:   pool,
		logger: logger.Named("PgHabitRepo"),
	}
}

const createHabitQuery = `
INSERT INTO habits (id, user_id, pillar, name, frequency, xp_reward, archived, created_at)
VALUES ($1, $2, $3, $4, $5, $6, false, $7)`

const getHabitQuery = `
SELECT id, user_id, pillar, name, frequency, xp_reward, archived, created_at
FROM habits
WHERE id = $1 AND user_id = $2`

const listHabitsQuery = `
SELECT id, user_id, pillar, name, frequency, xp_reward, archived, created_at
FROM habits
WHERE user_id = $1 AND (archived = false OR $2)
ORDER BY created_at`

const archiveHabitQuery = `
UPDATE habits SET archived = true
WHERE id = $1 AND user_id = $2`

const habitHasCompletionsQuery = `
SELECT EXISTS (SELECT 1 FROM habit_completions WHERE habit_id = $1)`

const deleteHabitQuery = `
DELETE FROM habits
WHERE id = $1 AND user_id = $2`

func (r *pgHabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	if habit.ID == uuid.Nil {
		habit.ID = uuid.New()
	}
	if habit.CreatedAt.IsZero() {
		habit.CreatedAt = time.Now()
	}

	_, err := r.pool.Exec(ctx, createHabitQuery,
		habit.ID, habit.UserID, habit.Pillar, habit.Name, habit.Frequency, habit.XPReward, habit.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to create habit", zap.Stringer("userID", habit.UserID), zap.Error(err))
		return err
	}
	r.logger.Debug("Created habit", zap.Stringer("habitID", habit.ID), zap.String("pillar", habit.Pillar.String()))
	return nil
}

func (r *pgHabitRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Habit, error) {
	var habit models.Habit
	err := pgxscan.Get(ctx, r.pool, &habit, getHabitQuery, id, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrHabitNotFound
		}
		r.logger.Error("Failed to get habit", zap.Stringer("habitID", id), zap.Error(err))
		return nil, err
	}
	return &habit, nil
}

func (r *pgHabitRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Habit, error) {
	var habits []models.Habit
	err := pgxscan.Select(ctx, r.pool, &habits, listHabitsQuery, userID, includeArchived)
	if err != nil {
		r.logger.Error("Failed to list habits", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return habits, nil
}

func (r *pgHabitRepository) Archive(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, archiveHabitQuery, id, userID)
	if err != nil {
		r.logger.Error("Failed to archive habit", zap.Stringer("habitID", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrHabitNotFound
	}
	return nil
}

func (r *pgHabitRepository) HasCompletions(ctx context.Context, habitID uuid.UUID) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, habitHasCompletionsQuery, habitID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check habit completions", zap.Stringer("habitID", habitID), zap.Error(err))
		return false, err
	}
	return exists, nil
}

func (r *pgHabitRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, deleteHabitQuery, id, userID)
	if err != nil {
		r.logger.Error("Failed to delete habit", zap.Stringer("habitID", id), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrHabitNotFound
	}
	return nil
}
