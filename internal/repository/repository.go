// Package repository defines the storage contracts of the wellness core and
// their PostgreSQL implementations. Services depend on the interfaces only;
// tests substitute testify mocks from the mocks subpackage.
package repository

import (
	"context"
	"time"

	"wellness-server/internal/models"

	"github.com/google/uuid"
)

// PillarCompletion is a completion joined with its habit's pillar, used by
// the insights engine.
type PillarCompletion struct {
	Pillar      models.Pillar `db:"pillar"`
	CompletedAt time.Time     `db:"completed_at"`
}

// HabitRepository manages habit definitions.
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) error
	// GetByID returns models.ErrHabitNotFound when the habit does not exist
	// or belongs to another user.
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Habit, error)
	ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]models.Habit, error)
	Archive(ctx context.Context, id, userID uuid.UUID) error
	HasCompletions(ctx context.Context, habitID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// CompletionRepository manages the append-only habit completion log.
type CompletionRepository interface {
	// Create returns models.ErrAlreadyCompleted on a (habit, day) unique
	// violation, the storage-level backstop of the orchestrator's check.
	Create(ctx context.Context, completion *models.HabitCompletion) error
	ExistsForDay(ctx context.Context, habitID, userID uuid.UUID, day time.Time) (bool, error)
	// CountForUserDay counts completions across all habits of the user on
	// the given calendar day.
	CountForUserDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
	// ListCompletionDays returns the distinct calendar day keys with at
	// least one completion within the streak lookback horizon.
	ListCompletionDays(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
	// ListWithPillarSince returns completions since the given time joined
	// with the owning habit's pillar.
	ListWithPillarSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]PillarCompletion, error)
	CountByPillar(ctx context.Context, userID uuid.UUID) (map[models.Pillar]int, error)
	PillarsCompletedOn(ctx context.Context, userID uuid.UUID, day time.Time) (map[models.Pillar]bool, error)
}

// ProgressRepository manages the server-authoritative gamification state.
type ProgressRepository interface {
	// GetOrCreate returns the user's progress row, initialising a fresh one
	// (XP 0, level 1, streaks 0, free tier) on first touch.
	GetOrCreate(ctx context.Context, userID uuid.UUID) (*models.UserProgress, error)
	UpdateStreak(ctx context.Context, userID uuid.UUID, current, longest int) error
	// AddXP adds delta to total XP and stores the recomputed level cache.
	AddXP(ctx context.Context, userID uuid.UUID, delta, level int) error
}

// AchievementRepository manages the unlock ledger and reading history.
type AchievementRepository interface {
	ListUnlockedKeys(ctx context.Context, userID uuid.UUID) (map[string]bool, error)
	// RecordUnlocks inserts unlock rows, silently skipping keys already
	// recorded so re-evaluation never duplicates an unlock.
	RecordUnlocks(ctx context.Context, userID uuid.UUID, keys []string, at time.Time) error
	CountReadingCompletions(ctx context.Context, userID uuid.UUID) (int, error)
}

// ReferenceRepository reads the externally curated analytics tables and
// per-user multiplier overrides.
type ReferenceRepository interface {
	Correlations(ctx context.Context, featuredOnly bool) ([]models.Correlation, error)
	HabitStacks(ctx context.Context, limit int) ([]models.HabitStack, error)
	// MultiplierOverrides returns the explicit per-pillar overrides of the
	// user, or models.ErrNotFound when none are set.
	MultiplierOverrides(ctx context.Context, userID uuid.UUID) (map[models.Pillar]float64, error)
}

// ConversationRepository manages the single coaching thread per user.
type ConversationRepository interface {
	// GetByUser returns models.ErrNotFound when the user has no thread yet.
	GetByUser(ctx context.Context, userID uuid.UUID) (*models.Conversation, error)
	Upsert(ctx context.Context, conversation *models.Conversation) error
}
