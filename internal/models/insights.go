package models

// PillarScore is the derived wellness score of one pillar over the analysis
// window. Not persisted; recomputed per request.
type PillarScore struct {
	Pillar         Pillar `json:"pillar"`
	Score          int    `json:"score"`
	HabitCount     int    `json:"habitCount"`
	CompletionRate int    `json:"completionRate"`
}

// TimeOfDay buckets habit completions by local hour.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"   // [05:00, 12:00)
	TimeAfternoon TimeOfDay = "afternoon" // [12:00, 17:00)
	TimeEvening   TimeOfDay = "evening"   // everything else
)

// TimeOfDayShares holds each bucket's percentage share of completions.
type TimeOfDayShares struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
}

// Best returns the bucket with the plurality share. Ties resolve in
// morning/afternoon/evening order so output is deterministic.
func (t TimeOfDayShares) Best() (TimeOfDay, int) {
	best, share := TimeMorning, t.Morning
	if t.Afternoon > share {
		best, share = TimeAfternoon, t.Afternoon
	}
	if t.Evening > share {
		best, share = TimeEvening, t.Evening
	}
	return best, share
}

// StreakStats summarises streak behaviour for insights.
type StreakStats struct {
	AverageLength int `json:"averageLength"`
	RecoveryRate  int `json:"recoveryRate"`
}

// Correlation is a curated cross-pillar relationship surfaced as insight
// text. Reference data, read-only for this service.
type Correlation struct {
	PillarA     Pillar  `json:"pillarA" db:"pillar_a"`
	PillarB     Pillar  `json:"pillarB" db:"pillar_b"`
	Strength    float64 `json:"strength" db:"correlation_strength"`
	InsightText string  `json:"insightText" db:"insight_text"`
	IsFeatured  bool    `json:"isFeatured" db:"is_featured"`
}

// HabitStack is a curated pairing of two habit types recommended together.
// CompletionRate is a percentage in [0, 100].
type HabitStack struct {
	HabitTypeA     string  `json:"habitTypeA" db:"habit_type_a"`
	HabitTypeB     string  `json:"habitTypeB" db:"habit_type_b"`
	PillarA        Pillar  `json:"pillarA" db:"pillar_a"`
	PillarB        Pillar  `json:"pillarB" db:"pillar_b"`
	CompletionRate float64 `json:"completionRate" db:"combined_completion_rate"`
	SuggestionText string  `json:"suggestionText" db:"suggestion_text"`
	Score          float64 `json:"score" db:"recommendation_score"`
}

// RecommendationType classifies a synthesized suggestion.
type RecommendationType string

const (
	RecommendationPillarFocus      RecommendationType = "pillar_focus"
	RecommendationHabitStack       RecommendationType = "habit_stack"
	RecommendationTimeOptimization RecommendationType = "time_optimization"
)

// Recommendation is one ranked suggestion in the insights payload.
type Recommendation struct {
	Type            RecommendationType `json:"type"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	PrimaryPillar   Pillar             `json:"primaryPillar,omitempty"`
	SecondaryPillar Pillar             `json:"secondaryPillar,omitempty"`
	Confidence      float64            `json:"confidence"`
	Priority        int                `json:"priority"`
}

// UserInsights is the full analytics payload for one user.
type UserInsights struct {
	OverallScore    int           `json:"overallScore"`
	PillarScores    []PillarScore `json:"pillarScores"`
	StrongestPillar *Pillar       `json:"strongestPillar"`
	WeakestPillar   *Pillar       `json:"weakestPillar"`
	BestTimeOfDay   *TimeOfDay    `json:"bestTimeOfDay"`
	// BestDayOfWeek needs more history than we retain; always null for now.
	BestDayOfWeek   *int             `json:"bestDayOfWeek"`
	StreakStats     StreakStats      `json:"streakStats"`
	Recommendations []Recommendation `json:"recommendations"`
}

// CompletionSummary is the response of a successful habit completion.
// TotalXP covers the completion itself (base + milestone + login);
// achievement XP is persisted with the award but reported separately.
type CompletionSummary struct {
	Completion     HabitCompletion `json:"completion"`
	BaseXP         int             `json:"xpEarned"`
	BonusXP        int             `json:"bonusXP"`
	TotalXP        int             `json:"totalXP"`
	AchievementXP  int             `json:"achievementXP,omitempty"`
	MilestoneLabel *string         `json:"milestone"`
	NewLevel       int             `json:"newLevel"`
	Achievements   []string        `json:"achievements,omitempty"`
	Streak         StreakResult    `json:"streak"`
}

// CoachContext is the structured user state injected into the coaching
// system prompt. Assembly lives here; generation is external.
type CoachContext struct {
	Level               int      `json:"level"`
	Streak              int      `json:"streak"`
	RecentHabits        []string `json:"recentHabits,omitempty"`
	Challenges          []string `json:"challenges,omitempty"`
	PillarScores        []string `json:"pillarScores,omitempty"`
	StrongestPillar     string   `json:"strongestPillar,omitempty"`
	WeakestPillar       string   `json:"weakestPillar,omitempty"`
	TopCorrelation      string   `json:"topCorrelation,omitempty"`
	SuggestedHabitStack string   `json:"suggestedHabitStack,omitempty"`
}
