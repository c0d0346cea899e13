package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"wellness-server/internal/models"
	"wellness-server/internal/platform/cache"
	"wellness-server/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// analysisWindowDays is the rolling window for wellness scoring and time
	// analysis.
	analysisWindowDays = 30

	// weakPillarScore is the score below which a pillar gets a focus
	// recommendation.
	weakPillarScore = 50

	// bestTimeMinShare is the minimum bucket share before a best time of day
	// is reported; anything lower is noise.
	bestTimeMinShare = 40

	defaultStackLimit = 8
)

// Multiplier tiers for pillars without explicit overrides. Weak pillars earn
// boosted XP to nudge users toward balance.
const (
	multiplierStruggling = 1.5
	multiplierBehind     = 1.2
	multiplierBase       = 1.0
)

// InsightsService computes the analytics surface: pillar scores, time
// patterns, curated correlations and stacks, recommendations and XP
// multipliers.
type InsightsService interface {
	FullInsights(ctx context.Context, userID uuid.UUID) (*models.UserInsights, error)
	Correlations(ctx context.Context, featuredOnly bool) ([]models.Correlation, error)
	HabitStacks(ctx context.Context, limit int) ([]models.HabitStack, error)
	// Multipliers returns the effective per-pillar XP multiplier: explicit
	// overrides verbatim when present, otherwise derived from pillar scores.
	Multipliers(ctx context.Context, userID uuid.UUID) (map[models.Pillar]float64, error)
	// InvalidateUser drops cached insights after state-changing operations.
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

var _ InsightsService = (*insightsService)(nil)

type insightsService struct {
	habits      repository.HabitRepository
	completions repository.CompletionRepository
	progress    repository.ProgressRepository
	reference   repository.ReferenceRepository
	cache       *cache.Cache
	logger      *zap.Logger
}

// NewInsightsService creates the analytics service. The cache is optional;
// when nil every request recomputes.
func NewInsightsService(
	habits repository.HabitRepository,
	completions repository.CompletionRepository,
	progress repository.ProgressRepository,
	reference repository.ReferenceRepository,
	insightsCache *cache.Cache,
	logger *zap.Logger,
) InsightsService {
	return &insightsService{
		habits:      habits,
		completions: completions,
		progress:    progress,
		reference:   reference,
		cache:       insightsCache,
		logger:      logger.Named("InsightsService"),
	}
}

func insightsCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("insights:full:%s", userID)
}

func multipliersCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("insights:multipliers:%s", userID)
}

func (s *insightsService) FullInsights(ctx context.Context, userID uuid.UUID) (*models.UserInsights, error) {
	if s.cache != nil {
		var cached models.UserInsights
		if err := s.cache.Get(ctx, insightsCacheKey(userID), &cached); err == nil {
			return &cached, nil
		}
	}

	scores, strongest, weakest, err := s.pillarScores(ctx, userID)
	if err != nil {
		return nil, err
	}

	shares, err := s.timeOfDayShares(ctx, userID)
	if err != nil {
		return nil, err
	}

	progress, err := s.progress.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	correlations, err := s.reference.Correlations(ctx, false)
	if err != nil {
		return nil, err
	}
	stacks, err := s.reference.HabitStacks(ctx, defaultStackLimit)
	if err != nil {
		return nil, err
	}

	insights := &models.UserInsights{
		OverallScore:    overallScore(scores),
		PillarScores:    scores,
		StrongestPillar: strongest,
		WeakestPillar:   weakest,
		StreakStats:     streakStats(progress),
		Recommendations: buildRecommendations(scores, strongest, weakest, shares, correlations, stacks),
	}

	if best, share := shares.Best(); share > bestTimeMinShare {
		insights.BestTimeOfDay = &best
	}

	if s.cache != nil {
		s.cache.Set(ctx, insightsCacheKey(userID), insights)
	}
	return insights, nil
}

func (s *insightsService) Correlations(ctx context.Context, featuredOnly bool) ([]models.Correlation, error) {
	return s.reference.Correlations(ctx, featuredOnly)
}

func (s *insightsService) HabitStacks(ctx context.Context, limit int) ([]models.HabitStack, error) {
	if limit <= 0 {
		limit = defaultStackLimit
	}
	return s.reference.HabitStacks(ctx, limit)
}

func (s *insightsService) Multipliers(ctx context.Context, userID uuid.UUID) (map[models.Pillar]float64, error) {
	if s.cache != nil {
		cached := make(map[models.Pillar]float64)
		if err := s.cache.Get(ctx, multipliersCacheKey(userID), &cached); err == nil {
			return cached, nil
		}
	}

	overrides, err := s.reference.MultiplierOverrides(ctx, userID)
	if err == nil {
		if s.cache != nil {
			s.cache.Set(ctx, multipliersCacheKey(userID), overrides)
		}
		return overrides, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	scores, _, _, err := s.pillarScores(ctx, userID)
	if err != nil {
		return nil, err
	}

	multipliers := make(map[models.Pillar]float64, len(scores))
	for _, score := range scores {
		multipliers[score.Pillar] = multiplierForScore(score.Score)
	}

	if s.cache != nil {
		s.cache.Set(ctx, multipliersCacheKey(userID), multipliers)
	}
	return multipliers, nil
}

func (s *insightsService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, insightsCacheKey(userID), multipliersCacheKey(userID))
}

func multiplierForScore(score int) float64 {
	switch {
	case score < 30:
		return multiplierStruggling
	case score < 60:
		return multiplierBehind
	default:
		return multiplierBase
	}
}

// pillarScores scores every pillar over the analysis window and returns the
// strongest and weakest among pillars that actually have habits.
func (s *insightsService) pillarScores(ctx context.Context, userID uuid.UUID) ([]models.PillarScore, *models.Pillar, *models.Pillar, error) {
	habits, err := s.habits.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, nil, nil, err
	}

	since := time.Now().AddDate(0, 0, -analysisWindowDays)
	completions, err := s.completions.ListWithPillarSince(ctx, userID, since)
	if err != nil {
		return nil, nil, nil, err
	}

	habitCount := make(map[models.Pillar]int)
	for _, habit := range habits {
		habitCount[habit.Pillar]++
	}
	completionCount := make(map[models.Pillar]int)
	for _, c := range completions {
		completionCount[c.Pillar]++
	}

	scores := make([]models.PillarScore, 0, len(models.AllPillars))
	var strongest, weakest *models.Pillar

	for _, pillar := range models.AllPillars {
		count := habitCount[pillar]
		if count == 0 {
			scores = append(scores, models.PillarScore{Pillar: pillar})
			continue
		}

		// Scoring assumes a daily cadence for every habit. A pillar with
		// active habits starts at 20 so showing up at all is rewarded.
		expected := count * analysisWindowDays
		rate := float64(completionCount[pillar]) / float64(expected) * 100
		score := int(math.Round(rate*0.8)) + 20
		if score > 100 {
			score = 100
		}

		ps := models.PillarScore{
			Pillar:         pillar,
			Score:          score,
			HabitCount:     count,
			CompletionRate: int(math.Round(rate)),
		}
		scores = append(scores, ps)

		p := pillar
		if strongest == nil || score > scoreOf(scores, *strongest) {
			strongest = &p
		}
		if weakest == nil || score < scoreOf(scores, *weakest) {
			weakest = &p
		}
	}

	return scores, strongest, weakest, nil
}

func scoreOf(scores []models.PillarScore, pillar models.Pillar) int {
	for _, s := range scores {
		if s.Pillar == pillar {
			return s.Score
		}
	}
	return 0
}

// overallScore averages across all pillars, zeros included. Untouched
// pillars drag the overall number down on purpose.
func overallScore(scores []models.PillarScore) int {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s.Score
	}
	return int(math.Round(float64(sum) / float64(len(scores))))
}

func (s *insightsService) timeOfDayShares(ctx context.Context, userID uuid.UUID) (models.TimeOfDayShares, error) {
	since := time.Now().AddDate(0, 0, -analysisWindowDays)
	completions, err := s.completions.ListWithPillarSince(ctx, userID, since)
	if err != nil {
		return models.TimeOfDayShares{}, err
	}
	if len(completions) == 0 {
		return models.TimeOfDayShares{Morning: 33, Afternoon: 33, Evening: 34}, nil
	}

	var morning, afternoon int
	for _, c := range completions {
		hour := c.CompletedAt.Hour()
		switch {
		case hour >= 5 && hour < 12:
			morning++
		case hour >= 12 && hour < 17:
			afternoon++
		}
	}

	total := len(completions)
	shares := models.TimeOfDayShares{
		Morning:   int(math.Round(float64(morning) / float64(total) * 100)),
		Afternoon: int(math.Round(float64(afternoon) / float64(total) * 100)),
	}
	shares.Evening = 100 - shares.Morning - shares.Afternoon
	return shares, nil
}

func streakStats(progress *models.UserProgress) models.StreakStats {
	stats := models.StreakStats{
		AverageLength: int(math.Round(float64(progress.CurrentStreak+progress.LongestStreak) / 2)),
	}
	if progress.LongestStreak > 0 {
		recovery := int(math.Round(float64(progress.CurrentStreak) / float64(progress.LongestStreak) * 100))
		if recovery > 100 {
			recovery = 100
		}
		stats.RecoveryRate = recovery
	}
	return stats
}

// buildRecommendations synthesizes ranked suggestions from the computed
// scores and the curated reference data. Output order is priority descending
// and deterministic for identical input.
func buildRecommendations(
	scores []models.PillarScore,
	strongest, weakest *models.Pillar,
	shares models.TimeOfDayShares,
	correlations []models.Correlation,
	stacks []models.HabitStack,
) []models.Recommendation {
	recs := make([]models.Recommendation, 0, 4)

	if weakest != nil && scoreOf(scores, *weakest) < weakPillarScore {
		recs = append(recs, models.Recommendation{
			Type:          models.RecommendationPillarFocus,
			Title:         fmt.Sprintf("Focus on your %s wellness", *weakest),
			Description:   fmt.Sprintf("Your %s pillar is falling behind. One small daily habit there would lift your overall score the most.", *weakest),
			PrimaryPillar: *weakest,
			Confidence:    0.85,
			Priority:      100,
		})
	}

	if strongest != nil && weakest != nil && *strongest != *weakest {
		if corr := findCorrelation(correlations, *strongest, *weakest); corr != nil {
			recs = append(recs, models.Recommendation{
				Type:            models.RecommendationHabitStack,
				Title:           fmt.Sprintf("Your %s habits can boost %s", *strongest, *weakest),
				Description:     corr.InsightText,
				PrimaryPillar:   *strongest,
				SecondaryPillar: *weakest,
				Confidence:      corr.Strength,
				Priority:        90,
			})
		}
	}

	if len(stacks) > 0 {
		top := stacks[0]
		recs = append(recs, models.Recommendation{
			Type:            models.RecommendationHabitStack,
			Title:           fmt.Sprintf("Stack %s with %s", top.HabitTypeA, top.HabitTypeB),
			Description:     top.SuggestionText,
			PrimaryPillar:   top.PillarA,
			SecondaryPillar: top.PillarB,
			Confidence:      top.CompletionRate / 100,
			Priority:        80,
		})
	}

	// Always present, even on the empty-state 33/33/34 split. The share gate
	// applies only to the bestTimeOfDay payload field.
	best, share := shares.Best()
	recs = append(recs, models.Recommendation{
		Type:        models.RecommendationTimeOptimization,
		Title:       fmt.Sprintf("You thrive in the %s", best),
		Description: fmt.Sprintf("%d%% of your completions happen in the %s. Schedule new habits there to ride the momentum.", share, best),
		Confidence:  0.75,
		Priority:    70,
	})

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Priority > recs[j].Priority })
	return recs
}

func findCorrelation(correlations []models.Correlation, a, b models.Pillar) *models.Correlation {
	for i := range correlations {
		c := &correlations[i]
		if (c.PillarA == a && c.PillarB == b) || (c.PillarA == b && c.PillarB == a) {
			return c
		}
	}
	return nil
}
