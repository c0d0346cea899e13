package gamification

import (
	"wellness-server/internal/models"
)

// Catalog is the static achievement catalog. Keys are stable identifiers;
// unlock history in the database references them, so entries may be added
// but never renamed.
var Catalog = []models.AchievementDefinition{
	{Key: "streak_3", Title: "Three in a Row", Kind: models.ConditionStreak, Threshold: 3, XPReward: XPAchievementUnlock},
	{Key: "streak_7", Title: "One Full Week", Kind: models.ConditionStreak, Threshold: 7, XPReward: XPAchievementUnlock},
	{Key: "streak_30", Title: "Monthly Momentum", Kind: models.ConditionStreak, Threshold: 30, XPReward: XPAchievementUnlock},
	{Key: "streak_100", Title: "Century Club", Kind: models.ConditionStreak, Threshold: 100, XPReward: XPAchievementUnlock},

	{Key: "level_5", Title: "Level 5", Kind: models.ConditionLevel, Threshold: 5, XPReward: XPAchievementUnlock},
	{Key: "level_10", Title: "Level 10", Kind: models.ConditionLevel, Threshold: 10, XPReward: XPAchievementUnlock},
	{Key: "level_25", Title: "Level 25", Kind: models.ConditionLevel, Threshold: 25, XPReward: XPAchievementUnlock},

	{Key: "physical_first", Title: "First Steps", Kind: models.ConditionPillarCount, Pillar: models.PillarPhysical, Threshold: 1, XPReward: XPAchievementUnlock},
	{Key: "physical_10", Title: "Body in Motion", Kind: models.ConditionPillarCount, Pillar: models.PillarPhysical, Threshold: 10, XPReward: XPAchievementUnlock},
	{Key: "physical_50", Title: "Iron Discipline", Kind: models.ConditionPillarCount, Pillar: models.PillarPhysical, Threshold: 50, XPReward: XPAchievementUnlock},

	{Key: "mental_first", Title: "Clear Mind", Kind: models.ConditionPillarCount, Pillar: models.PillarMental, Threshold: 1, XPReward: XPAchievementUnlock},
	{Key: "mental_10", Title: "Inner Calm", Kind: models.ConditionPillarCount, Pillar: models.PillarMental, Threshold: 10, XPReward: XPAchievementUnlock},
	{Key: "mental_50", Title: "Zen Master", Kind: models.ConditionPillarCount, Pillar: models.PillarMental, Threshold: 50, XPReward: XPAchievementUnlock},

	{Key: "fiscal_first", Title: "Penny Saved", Kind: models.ConditionPillarCount, Pillar: models.PillarFiscal, Threshold: 1, XPReward: XPAchievementUnlock},
	{Key: "fiscal_10", Title: "Budget Builder", Kind: models.ConditionPillarCount, Pillar: models.PillarFiscal, Threshold: 10, XPReward: XPAchievementUnlock},
	{Key: "fiscal_50", Title: "Money Wise", Kind: models.ConditionPillarCount, Pillar: models.PillarFiscal, Threshold: 50, XPReward: XPAchievementUnlock},

	{Key: "reader_first", Title: "First Chapter", Kind: models.ConditionReadingCount, Threshold: 1, XPReward: XPAchievementUnlock},
	{Key: "reader_5", Title: "Bookworm", Kind: models.ConditionReadingCount, Threshold: 5, XPReward: XPAchievementUnlock},

	// Still scoped to the original three pillars; see DESIGN.md.
	{Key: "balanced", Title: "Balanced Day", Kind: models.ConditionBalancedDay, XPReward: XPAchievementUnlock},
}

// AchievementState is the snapshot of user state the evaluator reads. The
// caller assembles it from storage; the evaluator itself is pure.
type AchievementState struct {
	CurrentStreak     int
	Level             int
	PillarCompletions map[models.Pillar]int
	ReadingCount      int
	// PillarsCompletedToday holds pillars with at least one completion on
	// the current calendar day.
	PillarsCompletedToday map[models.Pillar]bool
}

// QualifyingAchievements returns every catalog key whose condition the given
// state satisfies, in catalog order. The result is the full qualifying set,
// not a delta: evaluating twice with the same state yields the same keys,
// and the caller filters out already-unlocked keys before awarding XP.
func QualifyingAchievements(state AchievementState) []string {
	var keys []string
	for _, def := range Catalog {
		if satisfies(def, state) {
			keys = append(keys, def.Key)
		}
	}
	return keys
}

// DefinitionByKey looks up a catalog entry.
func DefinitionByKey(key string) (models.AchievementDefinition, bool) {
	for _, def := range Catalog {
		if def.Key == key {
			return def, true
		}
	}
	return models.AchievementDefinition{}, false
}

func satisfies(def models.AchievementDefinition, state AchievementState) bool {
	switch def.Kind {
	case models.ConditionStreak:
		return state.CurrentStreak >= def.Threshold
	case models.ConditionLevel:
		return state.Level >= def.Threshold
	case models.ConditionPillarCount:
		return state.PillarCompletions[def.Pillar] >= def.Threshold
	case models.ConditionReadingCount:
		return state.ReadingCount >= def.Threshold
	case models.ConditionBalancedDay:
		for _, pillar := range models.CorePillars {
			if !state.PillarsCompletedToday[pillar] {
				return false
			}
		}
		return true
	default:
		return false
	}
}
