// Package gamification holds the pure rule engines of the wellness app:
// the leveling curve, streak derivation with milestone bonuses, and the
// declarative achievement catalog. Nothing in here touches storage.
package gamification

import (
	"math"

	"wellness-server/internal/models"
)

// XP awarded for the various user actions.
const (
	XPHabitComplete     = 10
	XPReadingComplete   = 20
	XPDailyLogin        = 5
	XPAchievementUnlock = 25
	XPJournalEntry      = 15
)

// maxLevel bounds the accumulation loop in LevelFromTotalXP. The curve grows
// by 1.5x per level, so any realistic XP total resolves within a few dozen
// iterations; the cap only guards against pathological input.
const maxLevel = 1000

// XPRequiredForLevel returns the XP needed to clear the given level:
// floor(100 * 1.5^(level-1)). Level 1 requires 100 XP, level 2 150, and so
// on. Levels below 1 are treated as level 1.
func XPRequiredForLevel(level int) int {
	if level < 1 {
		level = 1
	}
	return int(math.Floor(100 * math.Pow(1.5, float64(level-1))))
}

// LevelFromTotalXP maps cumulative XP to the current level and progress
// within it. Requirements for levels 1, 2, ... are accumulated until the
// running total would exceed totalXP; the remainder is progress into the
// current level. Negative XP is a contract violation rejected upstream.
func LevelFromTotalXP(totalXP int) models.LevelInfo {
	level := 1
	accumulated := 0

	for level < maxLevel {
		required := XPRequiredForLevel(level)
		if accumulated+required > totalXP {
			into := totalXP - accumulated
			return models.LevelInfo{
				Level:           level,
				XPIntoLevel:     into,
				XPForNextLevel:  required,
				ProgressPercent: float64(into) / float64(required) * 100,
			}
		}
		accumulated += required
		level++
	}

	required := XPRequiredForLevel(level)
	return models.LevelInfo{
		Level:           level,
		XPIntoLevel:     totalXP - accumulated,
		XPForNextLevel:  required,
		ProgressPercent: float64(totalXP-accumulated) / float64(required) * 100,
	}
}
