package models

import (
	"time"

	"github.com/google/uuid"
)

// Frequency describes the intended cadence of a habit.
// Note: wellness scoring currently treats every habit as daily regardless of
// this field (see InsightsService); the field is stored for future use.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyCustom Frequency = "custom"
)

// Habit is a user-defined recurring activity inside one wellness pillar.
type Habit struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Pillar    Pillar    `json:"pillar" db:"pillar"`
	Name      string    `json:"name" db:"name"`
	Frequency Frequency `json:"frequency" db:"frequency"`
	XPReward  int       `json:"xpReward" db:"xp_reward"`
	// Archived habits are excluded from scoring and completion but kept so
	// historical analytics stay intact. Habits with completions are never
	// hard-deleted.
	Archived  bool      `json:"archived" db:"archived"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// HabitCompletion is an append-only record of a habit done on one calendar
// day. The (habit_id, completed_on) unique index enforces at most one logical
// completion per habit per day underneath the orchestrator's check.
type HabitCompletion struct {
	ID          uuid.UUID `json:"id" db:"id"`
	HabitID     uuid.UUID `json:"habitId" db:"habit_id"`
	UserID      uuid.UUID `json:"userId" db:"user_id"`
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
}

// CompletedOn returns the calendar day of the completion.
func (c HabitCompletion) CompletedOn() time.Time {
	y, m, d := c.CompletedAt.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.CompletedAt.Location())
}
