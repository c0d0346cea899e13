package models

// ConditionKind discriminates the unlock condition variants of an
// achievement. The catalog is declarative: one evaluator dispatches on the
// kind instead of per-achievement branches.
type ConditionKind string

const (
	// ConditionStreak unlocks at CurrentStreak >= Threshold.
	ConditionStreak ConditionKind = "streak"
	// ConditionLevel unlocks at Level >= Threshold.
	ConditionLevel ConditionKind = "level"
	// ConditionPillarCount unlocks at total completions in Pillar >= Threshold.
	ConditionPillarCount ConditionKind = "pillar_count"
	// ConditionReadingCount unlocks at completed readings >= Threshold.
	ConditionReadingCount ConditionKind = "reading_count"
	// ConditionBalancedDay unlocks when every core pillar has at least one
	// completion on the current calendar day.
	ConditionBalancedDay ConditionKind = "balanced_day"
)

// AchievementDefinition is one entry of the static achievement catalog.
type AchievementDefinition struct {
	Key       string        `json:"key"`
	Title     string        `json:"title"`
	Kind      ConditionKind `json:"kind"`
	Pillar    Pillar        `json:"pillar,omitempty"`
	Threshold int           `json:"threshold,omitempty"`
	XPReward  int           `json:"xpReward"`
}
