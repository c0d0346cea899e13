package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Tier is the account tier gating coach usage.
type Tier string

const (
	TierFree    Tier = "free"
	TierPremium Tier = "premium"
)

// UserProgress is the server-authoritative gamification state of one user.
// Only the completion orchestrator and the streak service write XP/streak
// fields; level is derived from TotalXP and cached here for display.
type UserProgress struct {
	UserID        uuid.UUID `json:"userId" db:"user_id"`
	TotalXP       int       `json:"totalXp" db:"total_xp"`
	Level         int       `json:"level" db:"level"`
	CurrentStreak int       `json:"currentStreak" db:"current_streak"`
	LongestStreak int       `json:"longestStreak" db:"longest_streak"`
	Tier          Tier      `json:"tier" db:"tier"`
	// Challenges the user named during onboarding, fed into coach context.
	Challenges pq.StringArray `json:"challenges" db:"challenges"`
	UpdatedAt  time.Time      `json:"updatedAt" db:"updated_at"`
}

// LevelInfo is the derived position of a user on the leveling curve.
type LevelInfo struct {
	Level           int     `json:"level"`
	XPIntoLevel     int     `json:"xpIntoLevel"`
	XPForNextLevel  int     `json:"xpForNextLevel"`
	ProgressPercent float64 `json:"progressPercent"`
}

// StreakResult is returned by the streak service after recomputing streak
// fields from the completion log.
type StreakResult struct {
	Current     int  `json:"current"`
	Longest     int  `json:"longest"`
	IsNewRecord bool `json:"isNewRecord"`
}
