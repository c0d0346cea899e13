package repository

import (
	"context"
	"errors"

	"wellness-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ ReferenceRepository = (*pgReferenceRepository)(nil)

type pgReferenceRepository struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPgReferenceRepository creates a repository over the curated analytics
// reference tables. These tables are seeded externally; this service only
// reads them.
func NewPgReferenceRepository(pool *pgxpool.Pool, logger *zap.Logger) ReferenceRepository {
	return &pgReferenceRepository{
		pool:   pool,
		logger: logger.Named("PgReferenceRepo"),
	}
}

const correlationsQuery = `
SELECT pillar_a, pillar_b, correlation_strength, insight_text, is_featured
FROM pillar_correlations
WHERE is_featured = true OR NOT $1
ORDER BY correlation_strength DESC`

const habitStacksQuery = `
SELECT habit_type_a, habit_type_b, pillar_a, pillar_b,
       combined_completion_rate, suggestion_text, recommendation_score
FROM habit_stack_patterns
ORDER BY recommendation_score DESC
LIMIT $1`

const multiplierOverridesQuery = `
SELECT physical_multiplier, mental_multiplier, fiscal_multiplier, social_multiplier,
       spiritual_multiplier, intellectual_multiplier, occupational_multiplier, environmental_multiplier
FROM user_xp_multipliers
WHERE user_id = $1`

func (r *pgReferenceRepository) Correlations(ctx context.Context, featuredOnly bool) ([]models.Correlation, error) {
	var correlations []models.Correlation
	err := pgxscan.Select(ctx, r.pool, &correlations, correlationsQuery, featuredOnly)
	if err != nil {
		r.logger.Error("Failed to load correlations", zap.Error(err))
		return nil, err
	}
	return correlations, nil
}

func (r *pgReferenceRepository) HabitStacks(ctx context.Context, limit int) ([]models.HabitStack, error) {
	var stacks []models.HabitStack
	err := pgxscan.Select(ctx, r.pool, &stacks, habitStacksQuery, limit)
	if err != nil {
		r.logger.Error("Failed to load habit stacks", zap.Error(err))
		return nil, err
	}
	return stacks, nil
}

func (r *pgReferenceRepository) MultiplierOverrides(ctx context.Context, userID uuid.UUID) (map[models.Pillar]float64, error) {
	var row struct {
		Physical      float64 `db:"physical_multiplier"`
		Mental        float64 `db:"mental_multiplier"`
		Fiscal        float64 `db:"fiscal_multiplier"`
		Social        float64 `db:"social_multiplier"`
		Spiritual     float64 `db:"spiritual_multiplier"`
		Intellectual  float64 `db:"intellectual_multiplier"`
		Occupational  float64 `db:"occupational_multiplier"`
		Environmental float64 `db:"environmental_multiplier"`
	}

	err := pgxscan.Get(ctx, r.pool, &row, multiplierOverridesQuery, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to load multiplier overrides", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}

	return map[models.Pillar]float64{
		models.PillarPhysical:      row.Physical,
		models.PillarMental:        row.Mental,
		models.PillarFiscal:        row.Fiscal,
		models.PillarSocial:        row.Social,
		models.PillarSpiritual:     row.Spiritual,
		models.PillarIntellectual:  row.Intellectual,
		models.PillarOccupational:  row.Occupational,
		models.PillarEnvironmental: row.Environmental,
	}, nil
}
